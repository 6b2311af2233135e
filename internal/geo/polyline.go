package geo

import (
	"math"
	"math/rand"
)

// Point is a WGS-84 coordinate.
type Point struct {
	Lat float64
	Lng float64
}

// Polyline is an ordered open chain of coordinates.
type Polyline []Point

// Length returns the total planar degree-space length of the chain. The
// sampler only needs relative segment proportions, so no geodesic correction
// is applied.
func (p Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += segmentLength(p[i-1], p[i])
	}
	return total
}

// PointAt walks the cumulative per-segment lengths until distance falls into
// a segment, then linearly interpolates the position. The returned heading is
// the segment's travel direction in degrees, normalized to [0,360).
func (p Polyline) PointAt(distance float64) (Point, float64) {
	if len(p) == 0 {
		return Point{}, 0
	}
	if len(p) == 1 || distance <= 0 {
		return p[0], headingOf(p, 0)
	}

	acc := 0.0
	for i := 1; i < len(p); i++ {
		seg := segmentLength(p[i-1], p[i])
		if acc+seg >= distance && seg > 0 {
			t := (distance - acc) / seg
			pt := Point{
				Lat: p[i-1].Lat + t*(p[i].Lat-p[i-1].Lat),
				Lng: p[i-1].Lng + t*(p[i].Lng-p[i-1].Lng),
			}
			return pt, headingOf(p, i-1)
		}
		acc += seg
	}
	last := len(p) - 1
	return p[last], headingOf(p, last-1)
}

// SamplePoint picks a uniformly distributed point along the chain using one
// draw from r, returning the interpolated position and segment heading.
func (p Polyline) SamplePoint(r *rand.Rand) (Point, float64) {
	return p.PointAt(r.Float64() * p.Length())
}

func segmentLength(a, b Point) float64 {
	return math.Hypot(b.Lat-a.Lat, b.Lng-a.Lng)
}

// headingOf returns the travel direction of segment i in compass degrees
// (0 = north, 90 = east), normalized to [0,360).
func headingOf(p Polyline, i int) float64 {
	if i < 0 || i+1 >= len(p) {
		return 0
	}
	a, b := p[i], p[i+1]
	deg := math.Atan2(b.Lng-a.Lng, b.Lat-a.Lat) * 180 / math.Pi
	return NormalizeHeading(deg)
}

// NormalizeHeading wraps a degree value into [0,360).
func NormalizeHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
