package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/platform/currency"
	"github.com/forja3d/store/internal/platform/httpx"
	"github.com/forja3d/store/internal/services"
)

const maxCartBodySize = 4 * 1024

// CartHandlers exposes the cart endpoints.
type CartHandlers struct {
	carts services.CartService
}

// NewCartHandlers constructs handlers backed by the cart service.
func NewCartHandlers(carts services.CartService) *CartHandlers {
	return &CartHandlers{carts: carts}
}

// Routes wires the cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Delete("/", h.clearCart)
	r.Post("/items", h.addItem)
	r.Patch("/items/{productID}", h.setQuantity)
	r.Delete("/items/{productID}", h.removeItem)
}

type cartLinePayload struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	UnitPrice      string `json:"unit_price"`
	Quantity       int    `json:"qty"`
	LineTotalCents int64  `json:"line_total_cents"`
	LineTotal      string `json:"line_total"`
	Thumbnail      string `json:"thumb"`
}

type cartPayload struct {
	Lines         []cartLinePayload `json:"lines"`
	SubtotalCents int64             `json:"subtotal_cents"`
	Subtotal      string            `json:"subtotal"`
	ItemCount     int               `json:"item_count"`
}

func buildCartPayload(snapshot services.CartSnapshot) cartPayload {
	lines := make([]cartLinePayload, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, buildCartLinePayload(line))
	}
	return cartPayload{
		Lines:         lines,
		SubtotalCents: snapshot.SubtotalCents,
		Subtotal:      currency.FormatBRL(snapshot.SubtotalCents),
		ItemCount:     snapshot.ItemCount,
	}
}

func buildCartLinePayload(line domain.CartLine) cartLinePayload {
	total := line.LineTotalCents()
	return cartLinePayload{
		ID:             line.ProductID,
		Title:          line.Title,
		UnitPriceCents: line.UnitPriceCents,
		UnitPrice:      currency.FormatBRL(line.UnitPriceCents),
		Quantity:       line.Quantity,
		LineTotalCents: total,
		LineTotal:      currency.FormatBRL(total),
		Thumbnail:      line.Thumbnail,
	}
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	snapshot, err := h.carts.Snapshot(ctx)
	if err != nil {
		writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"cart": buildCartPayload(snapshot)})
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req struct {
		ID       string `json:"id"`
		Quantity int    `json:"qty"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "a product id is required", http.StatusBadRequest))
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	snapshot, err := h.carts.Add(ctx, strings.TrimSpace(req.ID), req.Quantity)
	if err != nil {
		writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"cart": buildCartPayload(snapshot)})
}

func (h *CartHandlers) setQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req struct {
		Quantity *int `json:"qty"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.Quantity == nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "a qty field is required", http.StatusBadRequest))
		return
	}

	snapshot, err := h.carts.SetQuantity(ctx, chi.URLParam(r, "productID"), *req.Quantity)
	if err != nil {
		writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"cart": buildCartPayload(snapshot)})
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	snapshot, err := h.carts.Remove(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"cart": buildCartPayload(snapshot)})
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	snapshot, err := h.carts.Clear(ctx)
	if err != nil {
		writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"cart": buildCartPayload(snapshot)})
}

func writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCartProductNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCartInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "a product id is required", http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart could not be read or persisted", http.StatusServiceUnavailable))
	}
}

func writeBodyError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	}
}
