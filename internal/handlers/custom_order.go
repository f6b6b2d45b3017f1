package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/forja3d/store/internal/domain"
	"github.com/forja3d/store/internal/platform/httpx"
	"github.com/forja3d/store/internal/services"
)

const maxInquiryBodySize = 16 * 1024

// CustomOrderHandlers serves the custom-piece inquiry form.
type CustomOrderHandlers struct {
	orders services.OrderService
}

// NewCustomOrderHandlers constructs handlers backed by the order service.
func NewCustomOrderHandlers(orders services.OrderService) *CustomOrderHandlers {
	return &CustomOrderHandlers{orders: orders}
}

// Routes wires the custom order endpoint onto the provided router.
func (h *CustomOrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.submitInquiry)
}

type inquiryRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *CustomOrderHandlers) submitInquiry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxInquiryBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req inquiryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	message, err := h.orders.ComposeInquiry(ctx, domain.CustomInquiry{
		Name:        req.Name,
		Email:       req.Email,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeOrderError(ctx, w, err)
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
