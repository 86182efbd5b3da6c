package workorder

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
)

// WorkRequestRepository defines the interface for work request persistence
type WorkRequestRepository interface {
	// FindByID loads a request with its follow-ups ordered by sequence
	FindByID(ctx context.Context, id uuid.UUID) (*WorkRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]WorkRequest, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates the request and upserts its follow-ups.
	// A new request gets the next sequential number.
	Save(ctx context.Context, r *WorkRequest) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindFollowUps(ctx context.Context, requestID uuid.UUID) ([]FollowUp, error)
}

// ContractRepository defines the interface for contract persistence
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindByRequest(ctx context.Context, requestID uuid.UUID) (*Contract, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Contract, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, c *Contract) error
}
