package geo

import (
	"encoding/json"
	"fmt"

	"github.com/isp/backend/internal/domain/shared"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Polygon is a single outer ring; the closing vertex is optional
type Polygon struct {
	Ring []Point
}

// NewPolygon validates a ring and returns the polygon
func NewPolygon(ring []Point) (Polygon, error) {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return Polygon{}, shared.NewDomainError("INVALID_INPUT", "Polygon requires at least 3 distinct vertices")
	}
	for _, p := range ring {
		if err := p.Validate(); err != nil {
			return Polygon{}, err
		}
	}
	out := make([]Point, len(ring))
	copy(out, ring)
	return Polygon{Ring: out}, nil
}

// BoundingBox returns the smallest box that contains the ring
func (p Polygon) BoundingBox() BoundingBox {
	if len(p.Ring) == 0 {
		return BoundingBox{}
	}
	return fromBound(p.ring().Bound())
}

// Contains reports whether pt lies inside the ring. Points on an edge count
// as inside.
func (p Polygon) Contains(pt Point) bool {
	if len(p.Ring) < 3 {
		return false
	}
	return planar.RingContains(p.ring(), pt.toOrb())
}

func (p Polygon) ring() orb.Ring {
	r := make(orb.Ring, 0, len(p.Ring)+1)
	for _, pt := range p.Ring {
		r = append(r, pt.toOrb())
	}
	return append(r, r[0])
}

// MarshalJSON encodes the ring as GeoJSON-style [lng, lat] pairs
func (p Polygon) MarshalJSON() ([]byte, error) {
	coords := make([][2]float64, len(p.Ring))
	for i, pt := range p.Ring {
		coords[i] = [2]float64{pt.Lng, pt.Lat}
	}
	return json.Marshal(coords)
}

// UnmarshalJSON decodes [lng, lat] pairs
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var coords [][2]float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("decode polygon: %w", err)
	}
	ring := make([]Point, len(coords))
	for i, c := range coords {
		ring[i] = Point{Lng: c[0], Lat: c[1]}
	}
	p.Ring = ring
	return nil
}
