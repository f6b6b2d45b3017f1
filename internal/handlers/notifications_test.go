package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/forja3d/store/internal/services"
)

func newNotificationRouter(service services.NotificationService) chi.Router {
	router := chi.NewRouter()
	router.Route("/notifications", NewNotificationHandlers(service).Routes)
	return router
}

func TestNotificationHandlersCurrentEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/notifications/current", nil)
	rr := httptest.NewRecorder()
	newNotificationRouter(&stubNotificationService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
}

func TestNotificationHandlersCurrent(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service := &stubNotificationService{
		currentFunc: func() (services.Notification, bool) {
			return services.Notification{
				Text:        "Produto adicionado ao carrinho",
				PublishedAt: now,
				ExpiresAt:   now.Add(2200 * time.Millisecond),
			}, true
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/notifications/current", nil)
	rr := httptest.NewRecorder()
	newNotificationRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var body struct {
		Notification struct {
			Text string `json:"text"`
		} `json:"notification"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Notification.Text != "Produto adicionado ao carrinho" {
		t.Fatalf("unexpected text %q", body.Notification.Text)
	}
}

func TestNotificationHandlersDismiss(t *testing.T) {
	service := &stubNotificationService{}

	req := httptest.NewRequest(http.MethodDelete, "/notifications/current", nil)
	rr := httptest.NewRecorder()
	newNotificationRouter(service).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if service.dismissed != 1 {
		t.Fatalf("expected one dismiss call, got %d", service.dismissed)
	}
}
