package workorder

import (
	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
)

const (
	AggregateTypeWorkRequest = "WorkRequest"

	EventTypeRequestStatusChanged = "WorkRequestStatusChanged"
)

// RequestStatusChangedEvent is published on every lifecycle transition
type RequestStatusChangedEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID `json:"request_id"`
	OldStatus Status    `json:"old_status,omitempty"`
	NewStatus Status    `json:"new_status"`
}

// NewRequestStatusChangedEvent creates a new RequestStatusChangedEvent
func NewRequestStatusChangedEvent(r *WorkRequest, oldStatus, newStatus Status) *RequestStatusChangedEvent {
	return &RequestStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestStatusChanged, AggregateTypeWorkRequest, r.ID),
		RequestID:       r.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
