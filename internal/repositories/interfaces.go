package repositories

import (
	"context"

	domain "github.com/forja3d/store/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsCorrupt() bool
	IsUnavailable() bool
}

// CatalogRepository loads the immutable product catalog in its authored order.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// CartStorage persists the single durable cart slot. Load returns an empty
// slice when no slot exists yet; a corrupt slot surfaces as a RepositoryError
// with IsCorrupt so callers can fall back instead of failing.
type CartStorage interface {
	Load(ctx context.Context) ([]domain.CartLine, error)
	Save(ctx context.Context, lines []domain.CartLine) error
	Close() error
}

// HealthRepository exposes status of downstream dependencies for readiness checks.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
