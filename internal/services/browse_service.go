package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	domain "github.com/forja3d/store/internal/domain"
)

var (
	// ErrBrowseInvalidInput indicates the command referenced an unknown page or index.
	ErrBrowseInvalidInput = errors.New("browse service: invalid input")
	// ErrBrowseProductNotFound indicates the selected product does not exist.
	ErrBrowseProductNotFound = errors.New("browse service: product not found")
)

// BrowseServiceDeps bundles constructor inputs for the browse service.
type BrowseServiceDeps struct {
	Catalog CatalogService
	Logger  func(context.Context, string, map[string]any)
}

type browseService struct {
	catalog CatalogService
	logger  func(context.Context, string, map[string]any)

	mu    sync.Mutex
	state domain.BrowseState
}

// NewBrowseService constructs a BrowseService starting on the home page with
// no filters applied.
func NewBrowseService(deps BrowseServiceDeps) (BrowseService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("browse service: catalog is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &browseService{
		catalog: deps.Catalog,
		logger:  logger,
		state:   initialBrowseState(),
	}, nil
}

// State returns the current view and search state.
func (s *browseService) State(_ context.Context) domain.BrowseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply executes the command against the current state. The typed query only
// reaches the committed query through an explicit CommitSearch, mirroring a
// search box with a submit action.
func (s *browseService) Apply(ctx context.Context, cmd BrowseCommand) (domain.BrowseState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state

	if cmd.Navigate != nil {
		page := *cmd.Navigate
		if !validPage(page) {
			return s.state, fmt.Errorf("%w: unknown page %q", ErrBrowseInvalidInput, page)
		}
		next.ActivePage = page
		next.SelectedProduct = ""
		next.ActiveMediaIndex = 0
	}

	if cmd.SetCategory != nil {
		category := strings.TrimSpace(*cmd.SetCategory)
		if category == "" {
			category = domain.AllCategories
		}
		next.ActiveCategory = category
		next.ActivePage = domain.PageShop
	}

	if cmd.TypeQuery != nil {
		next.TypedQuery = *cmd.TypeQuery
	}

	if cmd.CommitSearch {
		next.CommittedQuery = next.TypedQuery
		next.ActivePage = domain.PageShop
	}

	if cmd.ClearSelected {
		next.SelectedProduct = ""
		next.ActiveMediaIndex = 0
	}

	if cmd.SelectProduct != nil {
		productID := strings.TrimSpace(*cmd.SelectProduct)
		if productID == "" {
			return s.state, ErrBrowseInvalidInput
		}
		if _, err := s.catalog.Product(ctx, productID); err != nil {
			if errors.Is(err, ErrCatalogProductNotFound) {
				return s.state, ErrBrowseProductNotFound
			}
			return s.state, err
		}
		next.SelectedProduct = productID
		next.ActiveMediaIndex = 0
	}

	if cmd.SetMediaIndex != nil {
		if next.SelectedProduct == "" {
			return s.state, fmt.Errorf("%w: no product selected", ErrBrowseInvalidInput)
		}
		product, err := s.catalog.Product(ctx, next.SelectedProduct)
		if err != nil {
			return s.state, err
		}
		next.ActiveMediaIndex = clampMediaIndex(*cmd.SetMediaIndex, len(product.Media))
	}

	s.state = next
	s.logger(ctx, "browse.state_changed", map[string]any{
		"page":     string(next.ActivePage),
		"category": next.ActiveCategory,
	})
	return next, nil
}

// Reset restores the initial state, dropping filters and selection.
func (s *browseService) Reset(_ context.Context) domain.BrowseState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = initialBrowseState()
	return s.state
}

func initialBrowseState() domain.BrowseState {
	return domain.BrowseState{
		ActivePage:     domain.PageHome,
		ActiveCategory: domain.AllCategories,
	}
}

func validPage(page domain.Page) bool {
	switch page {
	case domain.PageHome, domain.PageShop, domain.PageCart, domain.PageCheckout, domain.PageCustom:
		return true
	default:
		return false
	}
}

func clampMediaIndex(index, mediaCount int) int {
	if mediaCount <= 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= mediaCount {
		return mediaCount - 1
	}
	return index
}
