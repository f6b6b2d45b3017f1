package services

import (
	"context"
	"sync"

	domain "github.com/forja3d/store/internal/domain"
)

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "p1",
			Title:       "Dragão Articulado",
			PriceCents:  7990,
			Categories:  []string{"Colecionáveis"},
			Rarity:      domain.RarityEpic,
			IsNew:       true,
			Description: "Dragão impresso em PLA com articulações flexíveis.",
			Media: []domain.MediaItem{
				{Kind: domain.MediaKindImage, Source: "https://example.com/dragao.jpg"},
				{Kind: domain.MediaKindVideo, Source: "https://example.com/dragao.mp4"},
			},
		},
		{
			ID:         "p2",
			Title:      "Chaveiro",
			PriceCents: 1990,
			Categories: []string{"Acessórios", "Presentes"},
			Rarity:     domain.RarityCommon,
			Media: []domain.MediaItem{
				{Kind: domain.MediaKindImage, Source: "https://example.com/chaveiro.jpg"},
			},
		},
		{
			ID:          "p3",
			Title:       "Vaso Geométrico",
			PriceCents:  3990,
			Categories:  []string{"Decoração"},
			Rarity:      domain.RarityRare,
			Description: "Vaso minimalista para suculentas.",
			Media: []domain.MediaItem{
				{Kind: domain.MediaKindVideo, Source: "https://example.com/vaso.mp4"},
				{Kind: domain.MediaKindImage, Source: "https://example.com/vaso.jpg"},
			},
		},
		{
			ID:         "p4",
			Title:      "Luminária Lua",
			PriceCents: 12990,
			Categories: []string{"Decoração", "Presentes"},
			Rarity:     domain.RarityRare,
		},
	}
}

type stubCatalogRepository struct {
	products []domain.Product
	err      error
}

func (s *stubCatalogRepository) ListProducts(context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func newFixtureCatalog(t interface{ Fatalf(string, ...any) }) CatalogService {
	catalog, err := NewCatalogService(CatalogServiceDeps{
		Repository: &stubCatalogRepository{products: fixtureProducts()},
	})
	if err != nil {
		t.Fatalf("unexpected error building catalog service: %v", err)
	}
	return catalog
}

type stubCartStorage struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	loadErr error
	saveErr error
	saves   int
}

func (s *stubCartStorage) Load(context.Context) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

func (s *stubCartStorage) Save(_ context.Context, lines []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.lines = make([]domain.CartLine, len(lines))
	copy(s.lines, lines)
	s.saves++
	return nil
}

func (s *stubCartStorage) Close() error { return nil }

func (s *stubCartStorage) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Publish(_ context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
}

func (n *recordingNotifier) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.messages))
	copy(out, n.messages)
	return out
}

type recordingLogger struct {
	mu     sync.Mutex
	events []string
}

func (l *recordingLogger) log(_ context.Context, event string, _ map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *recordingLogger) has(event string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, candidate := range l.events {
		if candidate == event {
			return true
		}
	}
	return false
}
