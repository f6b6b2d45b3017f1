package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

const defaultNotificationTTL = 2200 * time.Millisecond

// NotificationServiceDeps bundles constructor inputs for the notification service.
type NotificationServiceDeps struct {
	TTL    time.Duration
	Clock  func() time.Time
	Logger func(context.Context, string, map[string]any)
}

type notificationService struct {
	ttl    time.Duration
	now    func() time.Time
	logger func(context.Context, string, map[string]any)

	mu         sync.Mutex
	current    *Notification
	generation uint64
	timer      *time.Timer
}

// NewNotificationService constructs the single-slot toast channel. Publishing
// replaces whatever is showing; the slot clears itself after the TTL.
func NewNotificationService(deps NotificationServiceDeps) (NotificationService, error) {
	ttl := deps.TTL
	if ttl == 0 {
		ttl = defaultNotificationTTL
	}
	if ttl < 0 {
		return nil, errors.New("notification service: ttl must be positive")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &notificationService{ttl: ttl, now: clock, logger: logger}, nil
}

// Publish replaces the slot with a fresh notification and re-arms the expiry
// timer. The generation counter makes a stale timer firing after replacement
// a no-op.
func (s *notificationService) Publish(ctx context.Context, text string) {
	if text == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	generation := s.generation
	now := s.now()
	s.current = &Notification{
		Text:        text,
		PublishedAt: now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.ttl, func() {
		s.expire(generation)
	})

	s.logger(ctx, "notification.published", map[string]any{"text": text})
}

// Current returns the live notification, if any. A notification past its
// expiry is treated as gone even when the timer has not fired yet.
func (s *notificationService) Current() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return Notification{}, false
	}
	if !s.now().Before(s.current.ExpiresAt) {
		s.clearLocked()
		return Notification{}, false
	}
	return *s.current, true
}

// Dismiss clears the slot immediately.
func (s *notificationService) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Shutdown stops the expiry timer; used on process shutdown.
func (s *notificationService) Shutdown() {
	s.Dismiss()
}

func (s *notificationService) expire(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		// A newer publish already replaced this notification.
		return
	}
	s.current = nil
}

func (s *notificationService) clearLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.current = nil
}
