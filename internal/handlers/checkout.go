package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/platform/httpx"
	"github.com/forja3d/store/internal/services"
)

const maxCheckoutBodySize = 16 * 1024

// CheckoutHandlers turns the current cart into an outbound order message.
type CheckoutHandlers struct {
	carts  services.CartService
	orders services.OrderService
}

// NewCheckoutHandlers constructs handlers backed by the cart and order services.
func NewCheckoutHandlers(carts services.CartService, orders services.OrderService) *CheckoutHandlers {
	return &CheckoutHandlers{carts: carts, orders: orders}
}

// Routes wires the checkout endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/order", h.placeOrder)
}

type checkoutRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	PostalCode string `json:"cep"`
	Note       string `json:"note"`
}

type orderMessagePayload struct {
	Reference   string `json:"reference"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
}

// placeOrder composes the order message from the cart and the buyer form.
// The cart clears only after composition succeeds, so a rejected form keeps
// the shopper's items intact.
func (h *CheckoutHandlers) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil || h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCheckoutBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req checkoutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	snapshot, err := h.carts.Snapshot(ctx)
	if err != nil {
		writeCartError(ctx, w, err)
		return
	}

	message, err := h.orders.ComposeOrder(ctx, snapshot.Lines, domain.BuyerDetails{
		Name:       req.Name,
		Email:      req.Email,
		Address:    req.Address,
		PostalCode: req.PostalCode,
		Note:       req.Note,
	})
	if err != nil {
		writeOrderError(ctx, w, err)
		return
	}

	if _, err := h.carts.Clear(ctx); err != nil {
		writeCartError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"order": orderMessagePayload{
			Reference:   message.Reference,
			Message:     message.Text,
			WhatsAppURL: message.DeepLink,
		},
	})
}

func writeOrderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderEmptyCart):
		httpx.WriteError(ctx, w, httpx.NewError("cart_empty", "the cart is empty", http.StatusConflict))
	case errors.Is(err, services.ErrOrderInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_buyer", "buyer details failed validation", http.StatusUnprocessableEntity))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout failed", http.StatusServiceUnavailable))
	}
}
