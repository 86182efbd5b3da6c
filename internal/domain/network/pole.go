package network

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/shared"
)

// DefaultPoleCapacity is the node capacity of a pole when none is given
const DefaultPoleCapacity = 8

// Pole is a physical infrastructure unit (poste) with a fixed number of
// customer nodes. AvailableCapacity changes only through the repository's
// Reserve and Release operations.
type Pole struct {
	shared.BaseAggregateRoot
	Code              string
	Location          geo.Point
	NeighborhoodID    uuid.UUID
	TotalCapacity     int
	AvailableCapacity int
	Active            bool
	Notes             string
}

// NewPole creates an active pole with all nodes available
func NewPole(code string, location geo.Point, neighborhoodID uuid.UUID, capacity int) (*Pole, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validatePoleCode(code); err != nil {
		return nil, err
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if neighborhoodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_NEIGHBORHOOD", "Pole must belong to a neighborhood")
	}
	if capacity == 0 {
		capacity = DefaultPoleCapacity
	}
	if capacity < 1 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Pole capacity must be at least 1")
	}

	return &Pole{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Location:          location,
		NeighborhoodID:    neighborhoodID,
		TotalCapacity:     capacity,
		AvailableCapacity: capacity,
		Active:            true,
	}, nil
}

// HasAvailability reports whether at least one node is free
func (p *Pole) HasAvailability() bool {
	return p.AvailableCapacity > 0
}

// CanRelease reports whether a release would keep available within total
func (p *Pole) CanRelease() bool {
	return p.AvailableCapacity < p.TotalCapacity
}

// UsedCapacity returns the number of reserved nodes
func (p *Pole) UsedCapacity() int {
	return p.TotalCapacity - p.AvailableCapacity
}

// OccupancyPercent returns the share of reserved nodes in percent
func (p *Pole) OccupancyPercent() float64 {
	if p.TotalCapacity == 0 {
		return 0
	}
	return float64(p.UsedCapacity()) / float64(p.TotalCapacity) * 100
}

// IsCandidate reports whether the pole may receive a new customer
func (p *Pole) IsCandidate() bool {
	return p.Active && p.HasAvailability()
}

// Update changes the descriptive fields. Capacity is not editable here.
func (p *Pole) Update(notes string, neighborhoodID uuid.UUID) error {
	if neighborhoodID == uuid.Nil {
		return shared.NewDomainError("INVALID_NEIGHBORHOOD", "Pole must belong to a neighborhood")
	}
	p.Notes = notes
	p.NeighborhoodID = neighborhoodID
	p.touch()
	return nil
}

// SetActive toggles the pole's availability for new assignments
func (p *Pole) SetActive(active bool) {
	if p.Active == active {
		return
	}
	p.Active = active
	p.touch()
}

// Relocate moves the pole
func (p *Pole) Relocate(location geo.Point) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.Location = location
	p.touch()
	return nil
}

// CheckInvariant verifies 0 <= available <= total
func (p *Pole) CheckInvariant() error {
	if p.AvailableCapacity < 0 || p.AvailableCapacity > p.TotalCapacity {
		return shared.NewDomainError("CAPACITY_INVARIANT", "Pole available capacity out of bounds")
	}
	return nil
}

func (p *Pole) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validatePoleCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Pole code cannot be empty")
	}
	if len(code) > 20 {
		return shared.NewDomainError("INVALID_CODE", "Pole code cannot exceed 20 characters")
	}
	return nil
}
