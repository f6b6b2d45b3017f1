package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/repositories"
)

const newArrivalsFallbackCount = 6

// placeholderThumbnail stands in for products without any image media.
const placeholderThumbnail = "https://picsum.photos/seed/placeholder/800/800"

var (
	// ErrCatalogUnavailable indicates the catalog backend could not be read.
	ErrCatalogUnavailable = errors.New("catalog service: unavailable")
	// ErrCatalogProductNotFound indicates no product carries the requested id.
	ErrCatalogProductNotFound = errors.New("catalog service: product not found")
	// ErrCatalogInvalidInput indicates the caller supplied invalid input.
	ErrCatalogInvalidInput = errors.New("catalog service: invalid input")
)

// CatalogServiceDeps bundles constructor inputs for the catalog service.
type CatalogServiceDeps struct {
	Repository repositories.CatalogRepository
	Logger     func(context.Context, string, map[string]any)
}

type catalogService struct {
	repo   repositories.CatalogRepository
	logger func(context.Context, string, map[string]any)
}

// NewCatalogService constructs a CatalogService enforcing dependency validation.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Repository == nil {
		return nil, errors.New("catalog service: repository is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &catalogService{repo: deps.Repository, logger: logger}, nil
}

// AllProducts returns the full catalog in authored order.
func (s *catalogService) AllProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		s.logger(ctx, "catalog.list_failed", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return products, nil
}

// Categories returns the category filter options: the all-products sentinel
// followed by each distinct category in first-seen catalog order.
func (s *catalogService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.AllProducts(ctx)
	if err != nil {
		return nil, err
	}

	categories := []string{domain.AllCategories}
	seen := map[string]struct{}{}
	for _, product := range products {
		for _, category := range product.Categories {
			if _, ok := seen[category]; ok {
				continue
			}
			seen[category] = struct{}{}
			categories = append(categories, category)
		}
	}
	return categories, nil
}

// Filter applies the category and term axes independently, preserving
// catalog order. Category matching is exact; term matching is a
// case-insensitive substring check over title, description, and categories.
func (s *catalogService) Filter(ctx context.Context, query FilterQuery) ([]domain.Product, error) {
	products, err := s.AllProducts(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(query.Term))
	out := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if !matchesCategory(product, query.Category) {
			continue
		}
		if !matchesTerm(product, term) {
			continue
		}
		out = append(out, product)
	}
	return out, nil
}

// NewArrivals returns the products flagged as new. A catalog with no flagged
// products still gets a showcase: the first products in authored order.
func (s *catalogService) NewArrivals(ctx context.Context) ([]domain.Product, error) {
	products, err := s.AllProducts(ctx)
	if err != nil {
		return nil, err
	}

	arrivals := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if product.IsNew {
			arrivals = append(arrivals, product)
		}
	}
	if len(arrivals) > 0 {
		return arrivals, nil
	}

	if len(products) > newArrivalsFallbackCount {
		products = products[:newArrivalsFallbackCount]
	}
	return products, nil
}

// Product finds a single product by id.
func (s *catalogService) Product(ctx context.Context, productID string) (domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.Product{}, ErrCatalogInvalidInput
	}

	products, err := s.AllProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, product := range products {
		if product.ID == productID {
			return product, nil
		}
	}
	return domain.Product{}, ErrCatalogProductNotFound
}

func matchesCategory(product domain.Product, category string) bool {
	if category == "" || category == domain.AllCategories {
		return true
	}
	for _, candidate := range product.Categories {
		if candidate == category {
			return true
		}
	}
	return false
}

func matchesTerm(product domain.Product, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(product.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(product.Description), term) {
		return true
	}
	for _, category := range product.Categories {
		if strings.Contains(strings.ToLower(category), term) {
			return true
		}
	}
	return false
}

// PrimaryThumbnail picks the image used to represent the product in compact
// surfaces. The first gallery entry wins when it is an image; otherwise any
// image in the gallery; otherwise a neutral placeholder.
func PrimaryThumbnail(product domain.Product) string {
	if len(product.Media) > 0 && product.Media[0].Kind == domain.MediaKindImage {
		return product.Media[0].Source
	}
	for _, item := range product.Media {
		if item.Kind == domain.MediaKindImage {
			return item.Source
		}
	}
	return placeholderThumbnail
}
