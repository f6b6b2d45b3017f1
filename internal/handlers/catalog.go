package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/platform/currency"
	"github.com/forja3d/store/internal/platform/httpx"
	"github.com/forja3d/store/internal/services"
)

// CatalogHandlers exposes the read-only shop endpoints.
type CatalogHandlers struct {
	catalog services.CatalogService
}

// NewCatalogHandlers constructs handlers backed by the catalog service.
func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// Routes wires the catalog endpoints onto the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products", h.listProducts)
	r.Get("/products/{productID}", h.getProduct)
	r.Get("/categories", h.listCategories)
	r.Get("/new-arrivals", h.listNewArrivals)
}

type mediaPayload struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
}

type productPayload struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	PriceCents  int64          `json:"price_cents"`
	Price       string         `json:"price"`
	Categories  []string       `json:"categories"`
	Rarity      string         `json:"rarity"`
	New         bool           `json:"new"`
	Description string         `json:"description,omitempty"`
	Thumbnail   string         `json:"thumbnail"`
	Media       []mediaPayload `json:"media"`
}

func buildProductPayload(product domain.Product) productPayload {
	media := make([]mediaPayload, 0, len(product.Media))
	for _, item := range product.Media {
		media = append(media, mediaPayload{Kind: string(item.Kind), Source: item.Source})
	}
	categories := product.Categories
	if categories == nil {
		categories = []string{}
	}
	return productPayload{
		ID:          product.ID,
		Title:       product.Title,
		PriceCents:  product.PriceCents,
		Price:       currency.FormatBRL(product.PriceCents),
		Categories:  categories,
		Rarity:      string(product.Rarity),
		New:         product.IsNew,
		Description: product.Description,
		Thumbnail:   services.PrimaryThumbnail(product),
		Media:       media,
	}
}

func buildProductListPayload(products []domain.Product) []productPayload {
	payload := make([]productPayload, 0, len(products))
	for _, product := range products {
		payload = append(payload, buildProductPayload(product))
	}
	return payload
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	query := services.FilterQuery{
		Category: r.URL.Query().Get("category"),
		Term:     r.URL.Query().Get("q"),
	}
	products, err := h.catalog.Filter(ctx, query)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"products": buildProductListPayload(products)})
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	product, err := h.catalog.Product(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"product": buildProductPayload(product)})
}

func (h *CatalogHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *CatalogHandlers) listNewArrivals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	products, err := h.catalog.NewArrivals(ctx)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{"products": buildProductListPayload(products)})
}

func writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogProductNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "a product id is required", http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog could not be read", http.StatusServiceUnavailable))
	}
}
