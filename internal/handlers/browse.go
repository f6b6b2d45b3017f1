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

const maxBrowseBodySize = 4 * 1024

// BrowseHandlers exposes the session view-state endpoints.
type BrowseHandlers struct {
	browse services.BrowseService
}

// NewBrowseHandlers constructs handlers backed by the browse service.
func NewBrowseHandlers(browse services.BrowseService) *BrowseHandlers {
	return &BrowseHandlers{browse: browse}
}

// Routes wires the browse endpoints onto the provided router.
func (h *BrowseHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/state", h.getState)
	r.Post("/commands", h.applyCommand)
	r.Post("/reset", h.reset)
}

type browseStatePayload struct {
	Page             string `json:"page"`
	Category         string `json:"category"`
	TypedQuery       string `json:"typed_query"`
	CommittedQuery   string `json:"committed_query"`
	SelectedProduct  string `json:"selected_product,omitempty"`
	ActiveMediaIndex int    `json:"active_media_index"`
}

type browseCommandRequest struct {
	Navigate      *string `json:"navigate"`
	SetCategory   *string `json:"set_category"`
	TypeQuery     *string `json:"type_query"`
	CommitSearch  bool    `json:"commit_search"`
	SelectProduct *string `json:"select_product"`
	ClearSelected bool    `json:"clear_selected"`
	SetMediaIndex *int    `json:"set_media_index"`
}

func buildBrowseStatePayload(state domain.BrowseState) browseStatePayload {
	return browseStatePayload{
		Page:             string(state.ActivePage),
		Category:         state.ActiveCategory,
		TypedQuery:       state.TypedQuery,
		CommittedQuery:   state.CommittedQuery,
		SelectedProduct:  state.SelectedProduct,
		ActiveMediaIndex: state.ActiveMediaIndex,
	}
}

func (h *BrowseHandlers) getState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.browse == nil {
		httpx.WriteError(ctx, w, httpx.NewError("browse_unavailable", "browse service is unavailable", http.StatusServiceUnavailable))
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"state": buildBrowseStatePayload(h.browse.State(ctx))})
}

func (h *BrowseHandlers) applyCommand(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.browse == nil {
		httpx.WriteError(ctx, w, httpx.NewError("browse_unavailable", "browse service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxBrowseBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req browseCommandRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	cmd := services.BrowseCommand{
		SetCategory:   req.SetCategory,
		TypeQuery:     req.TypeQuery,
		CommitSearch:  req.CommitSearch,
		SelectProduct: req.SelectProduct,
		ClearSelected: req.ClearSelected,
		SetMediaIndex: req.SetMediaIndex,
	}
	if req.Navigate != nil {
		page := domain.Page(*req.Navigate)
		cmd.Navigate = &page
	}

	state, err := h.browse.Apply(ctx, cmd)
	if err != nil {
		writeBrowseError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"state": buildBrowseStatePayload(state)})
}

func (h *BrowseHandlers) reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.browse == nil {
		httpx.WriteError(ctx, w, httpx.NewError("browse_unavailable", "browse service is unavailable", http.StatusServiceUnavailable))
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"state": buildBrowseStatePayload(h.browse.Reset(ctx))})
}

func writeBrowseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrBrowseProductNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrBrowseInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("browse_unavailable", "browse state could not be updated", http.StatusServiceUnavailable))
	}
}
