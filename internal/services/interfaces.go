package services

import (
	"context"
	"time"

	domain "github.com/forja3d/store/internal/domain"
)

// FilterQuery carries the two independent catalog filter axes. Empty values
// mean "no restriction" on that axis.
type FilterQuery struct {
	Category string
	Term     string
}

// CatalogService answers read-only questions about the product catalog.
type CatalogService interface {
	AllProducts(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Filter(ctx context.Context, query FilterQuery) ([]domain.Product, error)
	NewArrivals(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, productID string) (domain.Product, error)
}

// CartSnapshot is the cart contents plus the derived aggregates every
// surface displays alongside them.
type CartSnapshot struct {
	Lines         []domain.CartLine
	SubtotalCents int64
	ItemCount     int
}

// CartService owns the single durable cart and its mutation rules.
type CartService interface {
	Add(ctx context.Context, productID string, quantity int) (CartSnapshot, error)
	Remove(ctx context.Context, productID string) (CartSnapshot, error)
	SetQuantity(ctx context.Context, productID string, quantity int) (CartSnapshot, error)
	Clear(ctx context.Context) (CartSnapshot, error)
	Snapshot(ctx context.Context) (CartSnapshot, error)
}

// OrderMessage is a composed outbound message plus the deep link that opens
// it in the messaging app.
type OrderMessage struct {
	Reference string
	Text      string
	DeepLink  string
}

// OrderService turns carts and inquiry forms into outbound order messages.
type OrderService interface {
	ComposeOrder(ctx context.Context, lines []domain.CartLine, buyer domain.BuyerDetails) (OrderMessage, error)
	ComposeInquiry(ctx context.Context, inquiry domain.CustomInquiry) (OrderMessage, error)
}

// Notification is one transient toast message.
type Notification struct {
	Text        string
	PublishedAt time.Time
	ExpiresAt   time.Time
}

// NotificationService holds at most one live toast at a time.
type NotificationService interface {
	Publish(ctx context.Context, text string)
	Current() (Notification, bool)
	Dismiss()
	Shutdown()
}

// BrowseCommand mutates the session's view and search state.
type BrowseCommand struct {
	Navigate      *domain.Page
	SetCategory   *string
	TypeQuery     *string
	CommitSearch  bool
	SelectProduct *string
	ClearSelected bool
	SetMediaIndex *int
}

// BrowseService tracks the ephemeral navigation, filter, and selection state.
type BrowseService interface {
	State(ctx context.Context) domain.BrowseState
	Apply(ctx context.Context, cmd BrowseCommand) (domain.BrowseState, error)
	Reset(ctx context.Context) domain.BrowseState
}

// SystemService aggregates dependency health for liveness and readiness probes.
type SystemService interface {
	Health(ctx context.Context) (domain.SystemHealthReport, error)
}
