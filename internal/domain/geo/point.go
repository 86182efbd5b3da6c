// Package geo holds the spatial primitives used to place customers, poles and
// neighborhoods: WGS84 points, distance functions, bounding boxes and polygon
// containment.
package geo

import (
	"fmt"
	"math"

	"github.com/isp/backend/internal/domain/shared"
	"github.com/paulmach/orb"
)

// Point is a WGS84 coordinate in decimal degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewPoint validates and creates a Point
func NewPoint(lat, lng float64) (Point, error) {
	p := Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate checks the coordinate ranges
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return shared.NewDomainError("INVALID_INPUT", "Coordinates must be finite numbers")
	}
	if p.Lat < -90 || p.Lat > 90 {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Latitude %.6f out of range [-90, 90]", p.Lat))
	}
	if p.Lng < -180 || p.Lng > 180 {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Longitude %.6f out of range [-180, 180]", p.Lng))
	}
	return nil
}

// String renders the point as "lat,lng"
func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

// toOrb converts to orb's [lng, lat] order
func (p Point) toOrb() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}
