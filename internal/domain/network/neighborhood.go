package network

import (
	"strings"
	"time"

	"github.com/isp/backend/internal/domain/geo"
	"github.com/isp/backend/internal/domain/shared"
)

// Neighborhood is a named polygonal area (barrio) used to classify customers and poles
type Neighborhood struct {
	shared.BaseAggregateRoot
	Name     string
	Boundary geo.Polygon
	Active   bool
}

// NewNeighborhood creates an active neighborhood
func NewNeighborhood(name string, boundary geo.Polygon) (*Neighborhood, error) {
	name = strings.TrimSpace(name)
	if err := validateNeighborhoodName(name); err != nil {
		return nil, err
	}
	if len(boundary.Ring) < 3 {
		return nil, shared.NewDomainError("INVALID_BOUNDARY", "Neighborhood boundary requires at least 3 vertices")
	}

	return &Neighborhood{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Boundary:          boundary,
		Active:            true,
	}, nil
}

// Update changes the name and boundary
func (n *Neighborhood) Update(name string, boundary *geo.Polygon) error {
	name = strings.TrimSpace(name)
	if err := validateNeighborhoodName(name); err != nil {
		return err
	}
	if boundary != nil {
		if len(boundary.Ring) < 3 {
			return shared.NewDomainError("INVALID_BOUNDARY", "Neighborhood boundary requires at least 3 vertices")
		}
		n.Boundary = *boundary
	}
	n.Name = name
	n.touch()
	return nil
}

// Deactivate hides the neighborhood from listings and coverage lookups
func (n *Neighborhood) Deactivate() {
	if !n.Active {
		return
	}
	n.Active = false
	n.touch()
}

// Activate makes the neighborhood visible again
func (n *Neighborhood) Activate() {
	if n.Active {
		return
	}
	n.Active = true
	n.touch()
}

// Contains reports whether the point lies inside the boundary
func (n *Neighborhood) Contains(p geo.Point) bool {
	return n.Boundary.Contains(p)
}

// BoundingBox returns the bounding box of the boundary
func (n *Neighborhood) BoundingBox() geo.BoundingBox {
	return n.Boundary.BoundingBox()
}

func (n *Neighborhood) touch() {
	n.UpdatedAt = time.Now()
	n.IncrementVersion()
}

func validateNeighborhoodName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Neighborhood name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Neighborhood name cannot exceed 100 characters")
	}
	return nil
}

// FirstContaining returns the first neighborhood whose boundary contains p.
// Boundaries are expected not to overlap; when they do, slice order decides.
func FirstContaining(candidates []Neighborhood, p geo.Point) *Neighborhood {
	for i := range candidates {
		if candidates[i].Contains(p) {
			return &candidates[i]
		}
	}
	return nil
}
