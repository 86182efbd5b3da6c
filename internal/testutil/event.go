package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/isp/backend/internal/domain/shared"
)

// RecordingHandler is a shared.EventHandler that keeps every event it gets
type RecordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingHandler subscribes to eventTypes, or to everything when none are given
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *RecordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, ev)
	return h.err
}

// Handled returns a copy of the received events
func (h *RecordingHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

// Types returns the received event types in order
func (h *RecordingHandler) Types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, len(h.handled))
	for i, ev := range h.handled {
		types[i] = ev.EventType()
	}
	return types
}

// SetError makes Handle fail with err
func (h *RecordingHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// WaitFor polls condition until it holds or timeout passes
func WaitFor(t testing.TB, condition func() bool, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}
