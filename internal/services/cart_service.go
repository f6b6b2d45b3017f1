package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/repositories"
)

const (
	maxLineQuantity = 99
	addedToastText  = "Produto adicionado ao carrinho"
)

var (
	// ErrCartInvalidInput indicates the caller supplied invalid input.
	ErrCartInvalidInput = errors.New("cart service: invalid input")
	// ErrCartProductNotFound indicates the product being added no longer exists.
	ErrCartProductNotFound = errors.New("cart service: product not found")
	// ErrCartUnavailable indicates the cart could not be read or persisted.
	ErrCartUnavailable = errors.New("cart service: unavailable")
)

type toastPublisher interface {
	Publish(ctx context.Context, text string)
}

// CartServiceDeps wires the storage, catalog, and notification dependencies
// for cart operations.
type CartServiceDeps struct {
	Storage  repositories.CartStorage
	Catalog  CatalogService
	Notifier toastPublisher
	Logger   func(context.Context, string, map[string]any)
}

type cartService struct {
	storage  repositories.CartStorage
	catalog  CatalogService
	notifier toastPublisher
	logger   func(context.Context, string, map[string]any)

	mu     sync.Mutex
	loaded bool
	lines  []domain.CartLine
}

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Storage == nil {
		return nil, errors.New("cart service: storage is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("cart service: catalog is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &cartService{
		storage:  deps.Storage,
		catalog:  deps.Catalog,
		notifier: deps.Notifier,
		logger:   logger,
	}, nil
}

// Add puts quantity more units of the product into the cart. The first unit
// snapshots title, unit price, and thumbnail; later catalog edits never
// reach existing lines. Non-positive quantities are clamped to 1.
func (s *cartService) Add(ctx context.Context, productID string, quantity int) (CartSnapshot, error) {
	if productID == "" {
		return CartSnapshot{}, ErrCartInvalidInput
	}
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrCatalogProductNotFound) || errors.Is(err, ErrCatalogInvalidInput) {
			return CartSnapshot{}, ErrCartProductNotFound
		}
		return CartSnapshot{}, fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return CartSnapshot{}, err
	}

	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			total := s.lines[i].Quantity + quantity
			if total > maxLineQuantity {
				total = maxLineQuantity
			}
			s.lines[i].Quantity = total
			found = true
			break
		}
	}
	if !found {
		if quantity > maxLineQuantity {
			quantity = maxLineQuantity
		}
		s.lines = append(s.lines, domain.CartLine{
			ProductID:      product.ID,
			Title:          product.Title,
			UnitPriceCents: product.PriceCents,
			Quantity:       quantity,
			Thumbnail:      PrimaryThumbnail(product),
		})
	}

	if err := s.persistLocked(ctx); err != nil {
		return CartSnapshot{}, err
	}
	if s.notifier != nil {
		s.notifier.Publish(ctx, addedToastText)
	}
	return s.snapshotLocked(), nil
}

// Remove drops the product's line entirely. Removing an absent product is a
// no-op.
func (s *cartService) Remove(ctx context.Context, productID string) (CartSnapshot, error) {
	if productID == "" {
		return CartSnapshot{}, ErrCartInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return CartSnapshot{}, err
	}

	kept := s.lines[:0]
	removed := false
	for _, line := range s.lines {
		if line.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	s.lines = kept

	if removed {
		if err := s.persistLocked(ctx); err != nil {
			return CartSnapshot{}, err
		}
	}
	return s.snapshotLocked(), nil
}

// SetQuantity replaces the line's quantity. Zero or negative quantities
// remove the line; an absent product is a no-op.
func (s *cartService) SetQuantity(ctx context.Context, productID string, quantity int) (CartSnapshot, error) {
	if productID == "" {
		return CartSnapshot{}, ErrCartInvalidInput
	}
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	if quantity > maxLineQuantity {
		quantity = maxLineQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return CartSnapshot{}, err
	}

	changed := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID && s.lines[i].Quantity != quantity {
			s.lines[i].Quantity = quantity
			changed = true
			break
		}
	}

	if changed {
		if err := s.persistLocked(ctx); err != nil {
			return CartSnapshot{}, err
		}
	}
	return s.snapshotLocked(), nil
}

// Clear empties the cart, typically after an order message is handed off.
func (s *cartService) Clear(ctx context.Context) (CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return CartSnapshot{}, err
	}

	s.lines = s.lines[:0]
	if err := s.persistLocked(ctx); err != nil {
		return CartSnapshot{}, err
	}
	return s.snapshotLocked(), nil
}

// Snapshot returns the current lines and derived aggregates.
func (s *cartService) Snapshot(ctx context.Context) (CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return CartSnapshot{}, err
	}
	return s.snapshotLocked(), nil
}

// ensureLoadedLocked hydrates the in-memory cart from storage once. A slot
// that fails to decode is logged and discarded; shoppers get an empty cart
// rather than a dead storefront.
func (s *cartService) ensureLoadedLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	lines, err := s.storage.Load(ctx)
	if err != nil {
		var repoErr repositories.RepositoryError
		if errors.As(err, &repoErr) && repoErr.IsCorrupt() {
			s.logger(ctx, "cart.slot_corrupt", map[string]any{"error": err.Error()})
			s.lines = []domain.CartLine{}
			s.loaded = true
			return nil
		}
		return fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}

	s.lines = lines
	s.loaded = true
	return nil
}

func (s *cartService) persistLocked(ctx context.Context) error {
	if err := s.storage.Save(ctx, s.lines); err != nil {
		s.logger(ctx, "cart.persist_failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}
	return nil
}

func (s *cartService) snapshotLocked() CartSnapshot {
	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)

	var subtotal int64
	count := 0
	for _, line := range lines {
		subtotal += line.LineTotalCents()
		count += line.Quantity
	}
	return CartSnapshot{Lines: lines, SubtotalCents: subtotal, ItemCount: count}
}
