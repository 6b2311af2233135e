package geo

import "math/rand"

// Location is one generated sample coordinate. Heading is only meaningful for
// highway-band samples, where it follows the sampled segment's direction.
type Location struct {
	Lat     float64
	Lng     float64
	Heading float64
	OnRoad  bool
}

// Sampler generates a biased coordinate sample over the reference geography.
type Sampler struct {
	seed     int64
	cities   []Weighted[City]
	highways []Polyline
}

// NewSampler builds a sampler over the given reference geography. Passing nil
// uses the packaged German cities and autobahn polylines.
func NewSampler(seed int64, cities []City, highways []Polyline) *Sampler {
	if cities == nil {
		cities = Cities
	}
	if highways == nil {
		highways = Highways
	}
	weighted := make([]Weighted[City], len(cities))
	for i, c := range cities {
		weighted[i] = Weighted[City]{Item: c, Weight: c.Weight}
	}
	return &Sampler{seed: seed, cities: weighted, highways: highways}
}

// Band boundaries for the one uniform draw that picks a sample's placement.
// Half the sample lands in urban cores, a quarter in outskirts, 17% on or
// near highways, and the rest in wide background scatter.
const (
	bandCityCore     = 0.50
	bandCityOutskirt = 0.75
	bandHighwayTight = 0.80
	bandHighwayLoose = 0.92

	highwayJitterTight = 0.01
	highwayJitterLoose = 0.05
)

// Generate produces exactly n sample locations. Sample i draws from a stream
// derived from (i XOR seed), so any prefix of the output is byte-identical
// across regenerations with the same seed.
func (s *Sampler) Generate(n int) []Location {
	out := make([]Location, n)
	for i := range out {
		out[i] = s.sampleOne(NewStream(s.seed, int64(i)))
	}
	return out
}

func (s *Sampler) sampleOne(r *rand.Rand) Location {
	band := r.Float64()
	switch {
	case band < bandCityCore:
		return s.cityNormal(r, 1)
	case band < bandCityOutskirt:
		return s.cityNormal(r, 5)
	case band < bandHighwayTight:
		return s.highwayPoint(r, highwayJitterTight)
	case band < bandHighwayLoose:
		return s.highwayPoint(r, highwayJitterLoose)
	default:
		return s.cityNormal(r, 10)
	}
}

// cityNormal scatters around a weighted city pick with the city's spread
// scaled by factor.
func (s *Sampler) cityNormal(r *rand.Rand, factor float64) Location {
	city := PickWeighted(r, s.cities)
	sigma := city.Spread * factor
	return Location{
		Lat: city.Lat + r.NormFloat64()*sigma,
		Lng: city.Lng + r.NormFloat64()*sigma,
	}
}

// highwayPoint picks a polyline uniformly, samples a point along it by
// cumulative segment length, and jitters the position.
func (s *Sampler) highwayPoint(r *rand.Rand, jitter float64) Location {
	line := s.highways[r.Intn(len(s.highways))]
	pt, heading := line.SamplePoint(r)
	return Location{
		Lat:     pt.Lat + (r.Float64()*2-1)*jitter,
		Lng:     pt.Lng + (r.Float64()*2-1)*jitter,
		Heading: heading,
		OnRoad:  true,
	}
}
