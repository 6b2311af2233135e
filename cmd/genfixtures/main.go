// Command genfixtures generates seed-deterministic cell and hotspot JSON
// fixtures using the actual engine, so test suites and downstream consumers
// see exactly what the running service would serve.
//
// Usage:
//
//	go run ./cmd/genfixtures \
//	  -seed 42 -cells 100 -hotspots 50 \
//	  -cells-out data/fixtures/cells.json \
//	  -hotspots-out data/fixtures/hotspots.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/DanielVondra/cardata-mock/internal/domain"
	"github.com/DanielVondra/cardata-mock/internal/engine"
	"github.com/DanielVondra/cardata-mock/internal/observability"
)

// Fixed generation instant so hotspot timestamps are reproducible.
var baseTime = time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	seed := flag.Int64("seed", 42, "master generation seed")
	cells := flag.Int("cells", 100, "number of sampled locations")
	hotspots := flag.Int("hotspots", 50, "number of hotspots")
	resolution := flag.Int("resolution", 7, "H3 grid resolution")
	cellsOut := flag.String("cells-out", "", "output path for cell summaries JSON")
	hotspotsOut := flag.String("hotspots-out", "", "output path for hotspots JSON")
	flag.Parse()

	if *cellsOut == "" || *hotspotsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -cells-out, -hotspots-out")
	}

	// Freeze the clock for reproducible timestamps.
	fixed := clockwork.NewFakeClockAt(baseTime)
	domain.SetClock(fixed)
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := engine.New(engine.Config{
		Seed:            *seed,
		CellCount:       *cells,
		HotspotCount:    *hotspots,
		H3Resolution:    *resolution,
		FlushInterval:   time.Hour,
		ProduceInterval: time.Hour,
		ProduceBatch:    1,
	}, logger, observability.NewMetricsForTesting(), engine.WithClock(fixed))
	if err != nil {
		return err
	}

	if err := svc.GenerateInitialData(); err != nil {
		return fmt.Errorf("generate initial data: %w", err)
	}

	summaries := svc.Snapshot()
	if err := writeJSON(*cellsOut, summaries); err != nil {
		return fmt.Errorf("writing cells fixture: %w", err)
	}
	log.Printf("wrote %d cell summaries: %s", len(summaries), *cellsOut)

	spots := svc.Hotspots()
	if err := writeJSON(*hotspotsOut, spots); err != nil {
		return fmt.Errorf("writing hotspots fixture: %w", err)
	}
	log.Printf("wrote %d hotspots: %s", len(spots), *hotspotsOut)

	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
