package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/forja3d/store/internal/platform/httpx"
	"github.com/forja3d/store/internal/services"
)

// NotificationHandlers exposes the transient toast channel.
type NotificationHandlers struct {
	notifications services.NotificationService
}

// NewNotificationHandlers constructs handlers backed by the notification service.
func NewNotificationHandlers(notifications services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notifications: notifications}
}

// Routes wires the notification endpoints onto the provided router.
func (h *NotificationHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/current", h.getCurrent)
	r.Delete("/current", h.dismiss)
}

type notificationPayload struct {
	Text        string `json:"text"`
	PublishedAt string `json:"published_at"`
	ExpiresAt   string `json:"expires_at"`
}

func (h *NotificationHandlers) getCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.notifications == nil {
		httpx.WriteError(ctx, w, httpx.NewError("notifications_unavailable", "notification service is unavailable", http.StatusServiceUnavailable))
		return
	}

	notification, ok := h.notifications.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"notification": notificationPayload{
			Text:        notification.Text,
			PublishedAt: notification.PublishedAt.UTC().Format(time.RFC3339Nano),
			ExpiresAt:   notification.ExpiresAt.UTC().Format(time.RFC3339Nano),
		},
	})
}

func (h *NotificationHandlers) dismiss(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.notifications == nil {
		httpx.WriteError(ctx, w, httpx.NewError("notifications_unavailable", "notification service is unavailable", http.StatusServiceUnavailable))
		return
	}
	h.notifications.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}
