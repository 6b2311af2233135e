// Package grid converts between WGS-84 coordinates and H3 cell indexes at a
// fixed resolution. The index string is the stable external identity of a
// weather cell.
package grid

import (
	"fmt"

	h3 "github.com/uber/h3-go/v4"
)

// DefaultResolution yields hexagons of roughly 5 km², a sensible weather-cell
// size for road segments.
const DefaultResolution = 7

// Indexer maps coordinates to H3 cells and back at one fixed resolution.
type Indexer struct {
	resolution int
}

// NewIndexer creates an Indexer. Resolutions outside H3's 0..15 range are an
// error rather than a silent clamp.
func NewIndexer(resolution int) (*Indexer, error) {
	if resolution < 0 || resolution > 15 {
		return nil, fmt.Errorf("grid: resolution %d outside H3 range [0,15]", resolution)
	}
	return &Indexer{resolution: resolution}, nil
}

// Resolution returns the fixed resolution of the indexer.
func (ix *Indexer) Resolution() int {
	return ix.resolution
}

// CellID converts a coordinate to its H3 index string. A conversion fault
// surfaces as a descriptive error, never a wrong id.
func (ix *Indexer) CellID(lat, lng float64) (string, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lng), ix.resolution)
	if err != nil {
		return "", fmt.Errorf("grid: index (%.5f, %.5f) at res %d: %w", lat, lng, ix.resolution, err)
	}
	return cell.String(), nil
}

// CellCenter inverts an index string to the cell's representative (center)
// coordinate. Malformed or non-cell indexes are rejected.
func (ix *Indexer) CellCenter(id string) (lat, lng float64, err error) {
	cell := h3.Cell(h3.IndexFromString(id))
	if !cell.IsValid() {
		return 0, 0, fmt.Errorf("grid: %q is not a valid H3 cell index", id)
	}
	ll, err := h3.CellToLatLng(cell)
	if err != nil {
		return 0, 0, fmt.Errorf("grid: center of %q: %w", id, err)
	}
	return ll.Lat, ll.Lng, nil
}

// Validate checks that id parses as a valid H3 cell index.
func (ix *Indexer) Validate(id string) error {
	if !h3.Cell(h3.IndexFromString(id)).IsValid() {
		return fmt.Errorf("grid: %q is not a valid H3 cell index", id)
	}
	return nil
}
