package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

const (
	// EarthRadiusMeters is the sphere radius used by Haversine
	EarthRadiusMeters = orb.EarthRadius
	// MetersPerDegree is the scale factor of the planar approximation
	MetersPerDegree = 111320.0
)

// DistanceMode selects how point-to-point distances are computed
type DistanceMode string

const (
	// DistanceHaversine computes great-circle distance on a sphere
	DistanceHaversine DistanceMode = "haversine"
	// DistancePlanar treats degrees as a flat plane scaled by MetersPerDegree
	DistancePlanar DistanceMode = "planar"
)

// DistanceFunc returns the distance in meters between two points
type DistanceFunc func(a, b Point) float64

// ParseDistanceMode parses a configured distance mode
func ParseDistanceMode(s string) (DistanceMode, error) {
	switch DistanceMode(s) {
	case DistanceHaversine, "":
		return DistanceHaversine, nil
	case DistancePlanar:
		return DistancePlanar, nil
	default:
		return "", fmt.Errorf("unknown distance mode %q", s)
	}
}

// Func returns the distance function for the mode
func (m DistanceMode) Func() DistanceFunc {
	if m == DistancePlanar {
		return Planar
	}
	return Haversine
}

// Haversine returns the great-circle distance between a and b in meters
func Haversine(a, b Point) float64 {
	return orbgeo.DistanceHaversine(a.toOrb(), b.toOrb())
}

// Planar returns the Euclidean distance in degrees scaled to meters.
// It ignores meridian convergence, so east-west distances are overstated away
// from the equator.
func Planar(a, b Point) float64 {
	dLat := b.Lat - a.Lat
	dLng := b.Lng - a.Lng
	return math.Sqrt(dLat*dLat+dLng*dLng) * MetersPerDegree
}
