package plan

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
)

// PaymentMethodRepository defines the interface for payment method persistence
type PaymentMethodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PaymentMethod, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, pm *PaymentMethod) error
	// Delete fails with a domain error when a plan still references the row
	Delete(ctx context.Context, id uuid.UUID) error
}

// ConnectionTypeRepository defines the interface for connection type persistence
type ConnectionTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ConnectionType, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ConnectionType, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, ct *ConnectionType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlanRepository defines the interface for plan persistence
type PlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	FindByCode(ctx context.Context, code string) (*Plan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Plan, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriberRepository defines the interface for subscriber persistence
type SubscriberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Subscriber, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Subscriber, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByDocument(ctx context.Context, documentNumber string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, s *Subscriber) error
	Delete(ctx context.Context, id uuid.UUID) error

	CountByStatusAndCoverage(ctx context.Context) ([]StatusCount, error)
	CountByType(ctx context.Context) ([]KeyCount, error)
	CountByCoverage(ctx context.Context) ([]KeyCount, error)
	TopZones(ctx context.Context, limit int) ([]KeyCount, error)
}
