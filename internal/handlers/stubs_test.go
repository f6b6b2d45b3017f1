package handlers

import (
	"context"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/services"
)

type stubCatalogService struct {
	allFunc         func(ctx context.Context) ([]domain.Product, error)
	categoriesFunc  func(ctx context.Context) ([]string, error)
	filterFunc      func(ctx context.Context, query services.FilterQuery) ([]domain.Product, error)
	newArrivalsFunc func(ctx context.Context) ([]domain.Product, error)
	productFunc     func(ctx context.Context, productID string) (domain.Product, error)
}

func (s *stubCatalogService) AllProducts(ctx context.Context) ([]domain.Product, error) {
	if s.allFunc == nil {
		return nil, nil
	}
	return s.allFunc(ctx)
}

func (s *stubCatalogService) Categories(ctx context.Context) ([]string, error) {
	if s.categoriesFunc == nil {
		return nil, nil
	}
	return s.categoriesFunc(ctx)
}

func (s *stubCatalogService) Filter(ctx context.Context, query services.FilterQuery) ([]domain.Product, error) {
	if s.filterFunc == nil {
		return nil, nil
	}
	return s.filterFunc(ctx, query)
}

func (s *stubCatalogService) NewArrivals(ctx context.Context) ([]domain.Product, error) {
	if s.newArrivalsFunc == nil {
		return nil, nil
	}
	return s.newArrivalsFunc(ctx)
}

func (s *stubCatalogService) Product(ctx context.Context, productID string) (domain.Product, error) {
	if s.productFunc == nil {
		return domain.Product{}, services.ErrCatalogProductNotFound
	}
	return s.productFunc(ctx, productID)
}

var _ services.CatalogService = (*stubCatalogService)(nil)

type stubCartService struct {
	addFunc         func(ctx context.Context, productID string, quantity int) (services.CartSnapshot, error)
	removeFunc      func(ctx context.Context, productID string) (services.CartSnapshot, error)
	setQuantityFunc func(ctx context.Context, productID string, quantity int) (services.CartSnapshot, error)
	clearFunc       func(ctx context.Context) (services.CartSnapshot, error)
	snapshotFunc    func(ctx context.Context) (services.CartSnapshot, error)
}

func (s *stubCartService) Add(ctx context.Context, productID string, quantity int) (services.CartSnapshot, error) {
	if s.addFunc == nil {
		return services.CartSnapshot{}, nil
	}
	return s.addFunc(ctx, productID, quantity)
}

func (s *stubCartService) Remove(ctx context.Context, productID string) (services.CartSnapshot, error) {
	if s.removeFunc == nil {
		return services.CartSnapshot{}, nil
	}
	return s.removeFunc(ctx, productID)
}

func (s *stubCartService) SetQuantity(ctx context.Context, productID string, quantity int) (services.CartSnapshot, error) {
	if s.setQuantityFunc == nil {
		return services.CartSnapshot{}, nil
	}
	return s.setQuantityFunc(ctx, productID, quantity)
}

func (s *stubCartService) Clear(ctx context.Context) (services.CartSnapshot, error) {
	if s.clearFunc == nil {
		return services.CartSnapshot{}, nil
	}
	return s.clearFunc(ctx)
}

func (s *stubCartService) Snapshot(ctx context.Context) (services.CartSnapshot, error) {
	if s.snapshotFunc == nil {
		return services.CartSnapshot{}, nil
	}
	return s.snapshotFunc(ctx)
}

var _ services.CartService = (*stubCartService)(nil)

type stubOrderService struct {
	composeOrderFunc   func(ctx context.Context, lines []domain.CartLine, buyer domain.BuyerDetails) (services.OrderMessage, error)
	composeInquiryFunc func(ctx context.Context, inquiry domain.CustomInquiry) (services.OrderMessage, error)
}

func (s *stubOrderService) ComposeOrder(ctx context.Context, lines []domain.CartLine, buyer domain.BuyerDetails) (services.OrderMessage, error) {
	if s.composeOrderFunc == nil {
		return services.OrderMessage{}, nil
	}
	return s.composeOrderFunc(ctx, lines, buyer)
}

func (s *stubOrderService) ComposeInquiry(ctx context.Context, inquiry domain.CustomInquiry) (services.OrderMessage, error) {
	if s.composeInquiryFunc == nil {
		return services.OrderMessage{}, nil
	}
	return s.composeInquiryFunc(ctx, inquiry)
}

var _ services.OrderService = (*stubOrderService)(nil)

type stubBrowseService struct {
	stateFunc func(ctx context.Context) domain.BrowseState
	applyFunc func(ctx context.Context, cmd services.BrowseCommand) (domain.BrowseState, error)
	resetFunc func(ctx context.Context) domain.BrowseState
}

func (s *stubBrowseService) State(ctx context.Context) domain.BrowseState {
	if s.stateFunc == nil {
		return domain.BrowseState{}
	}
	return s.stateFunc(ctx)
}

func (s *stubBrowseService) Apply(ctx context.Context, cmd services.BrowseCommand) (domain.BrowseState, error) {
	if s.applyFunc == nil {
		return domain.BrowseState{}, nil
	}
	return s.applyFunc(ctx, cmd)
}

func (s *stubBrowseService) Reset(ctx context.Context) domain.BrowseState {
	if s.resetFunc == nil {
		return domain.BrowseState{}
	}
	return s.resetFunc(ctx)
}

var _ services.BrowseService = (*stubBrowseService)(nil)

type stubNotificationService struct {
	currentFunc   func() (services.Notification, bool)
	dismissed     int
	publishedText []string
}

func (s *stubNotificationService) Publish(_ context.Context, text string) {
	s.publishedText = append(s.publishedText, text)
}

func (s *stubNotificationService) Current() (services.Notification, bool) {
	if s.currentFunc == nil {
		return services.Notification{}, false
	}
	return s.currentFunc()
}

func (s *stubNotificationService) Dismiss() { s.dismissed++ }

func (s *stubNotificationService) Shutdown() {}

var _ services.NotificationService = (*stubNotificationService)(nil)

type stubSystemService struct {
	report domain.SystemHealthReport
	err    error
}

func (s *stubSystemService) Health(context.Context) (domain.SystemHealthReport, error) {
	return s.report, s.err
}

var _ services.SystemService = (*stubSystemService)(nil)
