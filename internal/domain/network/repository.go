package network

import (
	"context"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/shared"
)

// NeighborhoodRepository defines the interface for neighborhood persistence
type NeighborhoodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Neighborhood, error)
	FindByName(ctx context.Context, name string) (*Neighborhood, error)

	// FindAll finds active neighborhoods matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Neighborhood, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindBoxContaining returns active neighborhoods whose bounding box
	// contains p, ordered by name. Exact containment is checked by the caller.
	FindBoxContaining(ctx context.Context, p geo.Point) ([]Neighborhood, error)

	// CountPoles returns the number of active poles and of those with spare capacity
	CountPoles(ctx context.Context, id uuid.UUID) (total int64, available int64, err error)

	Save(ctx context.Context, n *Neighborhood) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// PoleRepository defines the interface for pole persistence.
// Reserve and Release are the only operations that mutate available capacity.
type PoleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Pole, error)
	FindByCode(ctx context.Context, code string) (*Pole, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Pole, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByNeighborhood(ctx context.Context, neighborhoodID uuid.UUID, filter shared.Filter) ([]Pole, error)

	// FindAvailableInBox returns active poles with available capacity inside box
	FindAvailableInBox(ctx context.Context, box geo.BoundingBox) ([]Pole, error)

	// Save creates or updates a pole. Capacity columns are written only on create.
	Save(ctx context.Context, pole *Pole) error
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Reserve atomically takes one unit. It returns false with no mutation
	// when the pole is exhausted or missing.
	Reserve(ctx context.Context, id uuid.UUID) (bool, error)

	// Release atomically returns one unit. It returns false with no mutation
	// when the pole is already at full capacity or missing.
	Release(ctx context.Context, id uuid.UUID) (bool, error)
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByPole(ctx context.Context, poleID uuid.UUID) ([]Customer, error)

	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock saves a customer with optimistic locking (version check)
	// Returns error if the version has changed (concurrent modification)
	SaveWithLock(ctx context.Context, customer *Customer) error

	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus returns the number of customers per status
	CountByStatus(ctx context.Context) (map[CustomerStatus]int64, error)
}
