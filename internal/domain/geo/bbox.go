package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// BoundingBox is an axis-aligned lat/lng rectangle
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Contains reports whether p lies inside or on the box
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// BoxAround returns a box that contains every point within radiusMeters of
// center, for both distance modes. The box is clamped to valid coordinates.
func BoxAround(center Point, radiusMeters float64) BoundingBox {
	b := orbgeo.NewBoundAroundPoint(center.toOrb(), radiusMeters)
	// Pad slightly so points exactly on the radius are not lost to rounding.
	b = b.Pad(radiusMeters / MetersPerDegree * 0.01)
	return fromBound(b)
}

func fromBound(b orb.Bound) BoundingBox {
	box := BoundingBox{
		MinLat: math.Max(-90, b.Min.Lat()),
		MaxLat: math.Min(90, b.Max.Lat()),
		MinLng: b.Min.Lon(),
		MaxLng: b.Max.Lon(),
	}
	// A box crossing the antimeridian or a pole scans every longitude.
	if math.IsNaN(box.MinLng) || math.IsNaN(box.MaxLng) ||
		box.MinLng > box.MaxLng || box.MinLng < -180 || box.MaxLng > 180 {
		box.MinLng, box.MaxLng = -180, 180
	}
	return box
}
