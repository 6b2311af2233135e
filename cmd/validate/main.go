// Command validate checks generated fixtures for data integrity: hotspot
// invariants (range checks and temporal conservation), cell summary value
// ranges, and H3 id validity.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -cells data/fixtures/cells.json \
//	  -hotspots data/fixtures/hotspots.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"

	"github.com/DanielVondra/cardata-mock/internal/domain"
	"github.com/DanielVondra/cardata-mock/internal/grid"
)

var hotspotIDPattern = regexp.MustCompile(`^-?\d+\.\d{5}_-?\d+\.\d{5}$`)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cellsPath := flag.String("cells", "", "path to cell summaries JSON fixture")
	hotspotsPath := flag.String("hotspots", "", "path to hotspots JSON fixture")
	resolution := flag.Int("resolution", 7, "H3 grid resolution the cells were generated at")
	flag.Parse()

	if *cellsPath == "" || *hotspotsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*cellsPath, *hotspotsPath, *resolution); code != 0 {
		os.Exit(code)
	}
}

func run(cellsPath, hotspotsPath string, resolution int) int {
	fmt.Println("=== Fixture Integrity Validation ===")
	fmt.Println()

	cells, err := loadJSON[domain.CellSummary](cellsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cells JSON: %v\n", err)
		return 1
	}
	hotspots, err := loadJSON[domain.Hotspot](hotspotsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load hotspots JSON: %v\n", err)
		return 1
	}

	indexer, err := grid.NewIndexer(resolution)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCells(cells, indexer),
		validateHotspots(hotspots),
	}

	allPassed := true
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		allPassed = false
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Printf("\nall checks passed: %d cells, %d hotspots\n", len(cells), len(hotspots))
	return 0
}

func validateCells(cells []domain.CellSummary, indexer *grid.Indexer) *phase {
	p := &phase{name: fmt.Sprintf("cell summaries (%d)", len(cells))}

	seen := map[string]bool{}
	for _, c := range cells {
		if seen[c.H3Index] {
			p.errorf("cell %s: duplicate h3_index", c.H3Index)
		}
		seen[c.H3Index] = true

		if err := indexer.Validate(c.H3Index); err != nil {
			p.errorf("cell %s: %v", c.H3Index, err)
		}
		if c.Confidence < 0 || c.Confidence > 100 {
			p.errorf("cell %s: confidence %d out of [0,100]", c.H3Index, c.Confidence)
		}
		if c.TotalCount < 1 {
			p.errorf("cell %s: total_count %d < 1", c.H3Index, c.TotalCount)
		}
		if !c.RainIntensity.Valid() {
			p.errorf("cell %s: invalid rain_intensity %q", c.H3Index, c.RainIntensity)
		}
		if !c.RoadCondition.Valid() {
			p.errorf("cell %s: invalid road_condition %q", c.H3Index, c.RoadCondition)
		}
		if c.LastUpdated.IsZero() {
			p.errorf("cell %s: missing last_updated", c.H3Index)
		}
	}
	return p
}

func validateHotspots(hotspots []domain.Hotspot) *phase {
	p := &phase{name: fmt.Sprintf("hotspots (%d)", len(hotspots))}

	seen := map[string]bool{}
	for _, h := range hotspots {
		if seen[h.ID] {
			p.errorf("hotspot %s: duplicate id", h.ID)
		}
		seen[h.ID] = true

		if !hotspotIDPattern.MatchString(h.ID) {
			p.errorf("hotspot %s: id does not match lat_lng format", h.ID)
		}
		if want := domain.HotspotID(h.Location.Lat, h.Location.Lng); h.ID != want {
			p.errorf("hotspot %s: id does not match location (want %s)", h.ID, want)
		}
		if err := h.Validate(); err != nil {
			p.errorf("%v", err)
		}
		if h.Heading.Mean < 0 || h.Heading.Mean >= 360 {
			p.errorf("hotspot %s: heading mean %.2f out of [0,360)", h.ID, h.Heading.Mean)
		}
		if h.LastSeen.Before(h.FirstSeen) {
			p.errorf("hotspot %s: last_seen before first_seen", h.ID)
		}
	}
	return p
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
