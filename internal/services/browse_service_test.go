package services

import (
	"context"
	"errors"
	"testing"

	domain "github.com/forja3d/store/internal/domain"
)

func newBrowseService(t *testing.T) BrowseService {
	t.Helper()
	browse, err := NewBrowseService(BrowseServiceDeps{Catalog: newFixtureCatalog(t)})
	if err != nil {
		t.Fatalf("unexpected error building browse service: %v", err)
	}
	return browse
}

func pagePtr(page domain.Page) *domain.Page { return &page }
func strPtr(value string) *string           { return &value }
func intPtr(value int) *int                 { return &value }

func TestBrowseInitialState(t *testing.T) {
	browse := newBrowseService(t)

	state := browse.State(context.Background())
	if state.ActivePage != domain.PageHome {
		t.Fatalf("expected home page, got %q", state.ActivePage)
	}
	if state.ActiveCategory != domain.AllCategories {
		t.Fatalf("expected the all-products category, got %q", state.ActiveCategory)
	}
	if state.TypedQuery != "" || state.CommittedQuery != "" || state.SelectedProduct != "" {
		t.Fatalf("expected clean state, got %+v", state)
	}
}

func TestBrowseTypedQueryOnlyCommitsOnSearch(t *testing.T) {
	browse := newBrowseService(t)
	ctx := context.Background()

	state, err := browse.Apply(ctx, BrowseCommand{TypeQuery: strPtr("drag")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.TypedQuery != "drag" || state.CommittedQuery != "" {
		t.Fatalf("expected typing to stay uncommitted, got %+v", state)
	}

	state, err = browse.Apply(ctx, BrowseCommand{CommitSearch: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.CommittedQuery != "drag" {
		t.Fatalf("expected committed query, got %+v", state)
	}
	if state.ActivePage != domain.PageShop {
		t.Fatalf("expected search submit to land on shop, got %q", state.ActivePage)
	}
}

func TestBrowseSetCategoryNavigatesToShop(t *testing.T) {
	browse := newBrowseService(t)

	state, err := browse.Apply(context.Background(), BrowseCommand{SetCategory: strPtr("Decoração")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.ActiveCategory != "Decoração" || state.ActivePage != domain.PageShop {
		t.Fatalf("unexpected state: %+v", state)
	}

	state, err = browse.Apply(context.Background(), BrowseCommand{SetCategory: strPtr("  ")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.ActiveCategory != domain.AllCategories {
		t.Fatalf("expected blank category to mean all products, got %q", state.ActiveCategory)
	}
}

func TestBrowseSelectProduct(t *testing.T) {
	browse := newBrowseService(t)
	ctx := context.Background()

	state, err := browse.Apply(ctx, BrowseCommand{SelectProduct: strPtr("p1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.SelectedProduct != "p1" || state.ActiveMediaIndex != 0 {
		t.Fatalf("unexpected state: %+v", state)
	}

	if _, err := browse.Apply(ctx, BrowseCommand{SelectProduct: strPtr("missing")}); !errors.Is(err, ErrBrowseProductNotFound) {
		t.Fatalf("expected ErrBrowseProductNotFound, got %v", err)
	}
}

func TestBrowseMediaIndexClamping(t *testing.T) {
	browse := newBrowseService(t)
	ctx := context.Background()

	if _, err := browse.Apply(ctx, BrowseCommand{SelectProduct: strPtr("p1")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// p1 carries two media entries.
	state, err := browse.Apply(ctx, BrowseCommand{SetMediaIndex: intPtr(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.ActiveMediaIndex != 1 {
		t.Fatalf("expected index clamped to 1, got %d", state.ActiveMediaIndex)
	}

	state, err = browse.Apply(ctx, BrowseCommand{SetMediaIndex: intPtr(-3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.ActiveMediaIndex != 0 {
		t.Fatalf("expected negative index clamped to 0, got %d", state.ActiveMediaIndex)
	}

	if _, err := browse.Apply(ctx, BrowseCommand{ClearSelected: true, SetMediaIndex: intPtr(1)}); !errors.Is(err, ErrBrowseInvalidInput) {
		t.Fatalf("expected ErrBrowseInvalidInput without a selection, got %v", err)
	}
}

func TestBrowseNavigateClearsSelection(t *testing.T) {
	browse := newBrowseService(t)
	ctx := context.Background()

	if _, err := browse.Apply(ctx, BrowseCommand{SelectProduct: strPtr("p2")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err := browse.Apply(ctx, BrowseCommand{Navigate: pagePtr(domain.PageCart)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.ActivePage != domain.PageCart || state.SelectedProduct != "" {
		t.Fatalf("expected navigation to clear selection, got %+v", state)
	}

	if _, err := browse.Apply(ctx, BrowseCommand{Navigate: pagePtr(domain.Page("atlantis"))}); !errors.Is(err, ErrBrowseInvalidInput) {
		t.Fatalf("expected ErrBrowseInvalidInput for unknown page, got %v", err)
	}
}

func TestBrowseReset(t *testing.T) {
	browse := newBrowseService(t)
	ctx := context.Background()

	if _, err := browse.Apply(ctx, BrowseCommand{SetCategory: strPtr("Presentes"), TypeQuery: strPtr("lua"), CommitSearch: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := browse.Reset(ctx)
	if state.ActivePage != domain.PageHome || state.ActiveCategory != domain.AllCategories || state.CommittedQuery != "" {
		t.Fatalf("expected pristine state after reset, got %+v", state)
	}
}
