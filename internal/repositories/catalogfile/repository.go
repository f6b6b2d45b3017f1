// Package catalogfile loads the static product catalog from a YAML file.
// The catalog is authored by hand, read once at startup, and treated as
// immutable for the lifetime of the process.
package catalogfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/platform/currency"
	"github.com/forja3d/store/internal/repositories"
)

type catalogFile struct {
	Products []productEntry `yaml:"products"`
}

type productEntry struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Price       float64      `yaml:"price"`
	Categories  []string     `yaml:"categories"`
	Rarity      string       `yaml:"rarity"`
	New         bool         `yaml:"new"`
	Description string       `yaml:"description"`
	Media       []mediaEntry `yaml:"media"`
}

type mediaEntry struct {
	Kind   string `yaml:"kind"`
	Source string `yaml:"source"`
}

// Repository serves catalog products decoded from a YAML file. Products are
// loaded eagerly so authoring mistakes fail startup instead of first request.
type Repository struct {
	products []domain.Product
}

var _ repositories.CatalogRepository = (*Repository)(nil)

// New reads and validates the catalog file at path.
func New(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("catalog file: path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog file: unable to read %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, repositories.NewCorruptError("catalog file", err)
	}

	products, err := decodeProducts(file.Products)
	if err != nil {
		return nil, err
	}

	return &Repository{products: products}, nil
}

// ListProducts returns all catalog products in authored order.
func (r *Repository) ListProducts(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func decodeProducts(entries []productEntry) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for i, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog file: product %d is missing an id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("catalog file: duplicate product id %q", id)
		}
		seen[id] = struct{}{}

		title := strings.TrimSpace(entry.Title)
		if title == "" {
			return nil, fmt.Errorf("catalog file: product %q is missing a title", id)
		}
		if entry.Price < 0 {
			return nil, fmt.Errorf("catalog file: product %q has a negative price", id)
		}

		media := make([]domain.MediaItem, 0, len(entry.Media))
		for j, item := range entry.Media {
			source := strings.TrimSpace(item.Source)
			if source == "" {
				return nil, fmt.Errorf("catalog file: product %q media %d is missing a source", id, j)
			}
			kind := domain.MediaKind(strings.TrimSpace(item.Kind))
			if kind == "" {
				kind = domain.MediaKindImage
			}
			if kind != domain.MediaKindImage && kind != domain.MediaKindVideo {
				return nil, fmt.Errorf("catalog file: product %q media %d has unknown kind %q", id, j, item.Kind)
			}
			media = append(media, domain.MediaItem{Kind: kind, Source: source})
		}

		categories := make([]string, 0, len(entry.Categories))
		for _, category := range entry.Categories {
			category = strings.TrimSpace(category)
			if category != "" {
				categories = append(categories, category)
			}
		}

		products = append(products, domain.Product{
			ID:          id,
			Title:       title,
			PriceCents:  currency.ParseBRLUnits(entry.Price),
			Categories:  categories,
			Rarity:      domain.NormalizeRarity(domain.Rarity(entry.Rarity)),
			IsNew:       entry.New,
			Description: strings.TrimSpace(entry.Description),
			Media:       media,
		})
	}

	return products, nil
}
