package event

import (
	"context"

	"github.com/isp/backend/internal/domain/network"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/isp/backend/internal/domain/workorder"
	"go.uber.org/zap"
)

// ActivityLogHandler writes one structured log line per onboarding event
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates the handler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger.Named("activity")}
}

// EventTypes lists the events written to the activity log
func (h *ActivityLogHandler) EventTypes() []string {
	return []string{
		network.EventTypeCustomerCreated,
		network.EventTypeCustomerStatusChanged,
		network.EventTypePoleAssigned,
		workorder.EventTypeRequestStatusChanged,
	}
}

// Handle logs the event with its type-specific fields
func (h *ActivityLogHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", ev.EventType()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
	}

	switch e := ev.(type) {
	case *network.CustomerCreatedEvent:
		fields = append(fields, zap.String("name", e.FullName),
			zap.Float64("lat", e.Latitude), zap.Float64("lng", e.Longitude))
	case *network.CustomerStatusChangedEvent:
		fields = append(fields, zap.String("from", string(e.OldStatus)), zap.String("to", string(e.NewStatus)))
	case *network.PoleAssignedEvent:
		fields = append(fields, zap.String("pole_id", e.PoleID.String()))
		if e.PreviousPoleID != nil {
			fields = append(fields, zap.String("previous_pole_id", e.PreviousPoleID.String()))
		}
	case *workorder.RequestStatusChangedEvent:
		fields = append(fields, zap.String("from", string(e.OldStatus)), zap.String("to", string(e.NewStatus)))
	}

	h.logger.Info("Domain event", fields...)
	return nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
