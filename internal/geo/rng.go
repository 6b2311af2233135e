// Package geo generates the biased baseline coordinate sample the engine is
// seeded with: city clusters of varying spread, points along highway
// geometry, and a sparse background, all reproducible from a single seed.
package geo

import "math/rand"

// NewStream returns an independent deterministic random stream for one item.
// Mixing the item index into the seed gives every item its own stream, so any
// single draw can be regenerated without replaying shared generator state.
func NewStream(seed, index int64) *rand.Rand {
	return rand.New(rand.NewSource(seed ^ index))
}

// Weighted is an (item, weight) pair for cumulative-weight selection.
type Weighted[T any] struct {
	Item   T
	Weight float64
}

// PickWeighted selects one item by walking cumulative weights against a
// single uniform draw over the total weight. Zero- and negative-weight items
// are never selected. Falls back to the last item on floating-point shortfall.
func PickWeighted[T any](r *rand.Rand, items []Weighted[T]) T {
	total := 0.0
	for _, it := range items {
		if it.Weight > 0 {
			total += it.Weight
		}
	}
	roll := r.Float64() * total
	acc := 0.0
	for _, it := range items {
		if it.Weight <= 0 {
			continue
		}
		acc += it.Weight
		if roll < acc {
			return it.Item
		}
	}
	return items[len(items)-1].Item
}
