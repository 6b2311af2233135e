package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/DanielVondra/cardata-mock/internal/domain"
	"github.com/DanielVondra/cardata-mock/internal/environment"
	"github.com/DanielVondra/cardata-mock/internal/geo"
	"github.com/DanielVondra/cardata-mock/internal/grid"
	"github.com/DanielVondra/cardata-mock/internal/hotspot"
	"github.com/DanielVondra/cardata-mock/internal/observability"
)

// ErrCellNotFound is returned for cell ids absent from the live snapshot.
var ErrCellNotFound = errors.New("cell not found in current snapshot")

// Seed salts for the independent random streams hanging off the master seed.
const (
	producerSeedSalt = 0x50726f64 // "Prod"
	statsSeedSalt    = 0x53746174 // "Stat"
)

// Config carries the generation and scheduling parameters of the engine.
type Config struct {
	Seed            int64
	CellCount       int
	HotspotCount    int
	H3Resolution    int
	FlushInterval   time.Duration
	ProduceInterval time.Duration
	ProduceBatch    int
	StatsCacheSize  int
}

// SummaryPublisher receives the summaries of every freshly flushed snapshot.
type SummaryPublisher interface {
	PublishSummaries(ctx context.Context, batch []domain.CellSummary) error
}

// Option customizes a Service.
type Option func(*Service)

// WithClock injects a time source for the periodic loops; tests pass a fake.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithPublisher forwards each flushed snapshot to p.
func WithPublisher(p SummaryPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// sampledCell pairs a generated location with its precomputed grid cell.
type sampledCell struct {
	loc geo.Location
	id  string
}

// Service is the simulation engine: it owns the accumulator, the snapshot
// store, the hotspot ledger, and the two periodic activities that drive them.
// Construct with New, seed with GenerateInitialData, then Start/Stop.
type Service struct {
	cfg     Config
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock

	indexer   *grid.Indexer
	model     *environment.Model
	sampler   *geo.Sampler
	generator *hotspot.Generator

	acc       *accumulator
	snapshots *snapshotStore
	stats     *statsCache
	publisher SummaryPublisher

	// statsRand feeds statistic synthesis; guarded by statsMu because reads
	// from many goroutines may compute statistics concurrently.
	statsMu   sync.Mutex
	statsRand *rand.Rand

	// cells and hotspots are written during generation, before Start, and
	// read-only afterwards.
	cells    []sampledCell
	hotspots map[string]domain.Hotspot

	ready   atomic.Bool
	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New assembles a Service. It fails only for an unusable grid resolution.
func New(cfg Config, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) (*Service, error) {
	indexer, err := grid.NewIndexer(cfg.H3Resolution)
	if err != nil {
		return nil, err
	}
	if cfg.StatsCacheSize <= 0 {
		cfg.StatsCacheSize = 10000
	}

	s := &Service{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		indexer:   indexer,
		model:     environment.NewModel(cfg.Seed),
		sampler:   geo.NewSampler(cfg.Seed, nil, nil),
		generator: nil, // bound below, needs the clock option applied first
		acc:       newAccumulator(),
		snapshots: newSnapshotStore(),
		stats:     newStatsCache(cfg.StatsCacheSize),
		statsRand: rand.New(rand.NewSource(cfg.Seed ^ statsSeedSalt)),
		hotspots:  map[string]domain.Hotspot{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.generator = hotspot.NewGenerator(cfg.Seed, nil, s.clock.Now)
	return s, nil
}

// Ready reports whether the initial snapshot has been published.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

// CheckReadiness implements the HTTP readiness contract.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("initial data has not been generated yet")
	}
	return nil
}

// GenerateInitialCells samples n locations, seeds the accumulator with one
// model observation per location, and publishes the first snapshot. Distinct
// locations falling into the same grid cell collapse into one snapshot entry.
func (s *Service) GenerateInitialCells(n int) error {
	locs := s.sampler.Generate(n)
	now := s.clock.Now()

	cells := make([]sampledCell, 0, len(locs))
	for _, loc := range locs {
		id, err := s.indexer.CellID(loc.Lat, loc.Lng)
		if err != nil {
			return fmt.Errorf("engine: index sampled location: %w", err)
		}
		cells = append(cells, sampledCell{loc: loc, id: id})
		s.acc.merge(id, s.model.ObservationAt(loc.Lat, loc.Lng, now).WithDefaults())
	}
	s.cells = cells

	s.Flush()
	s.logger.Info("initial cells generated",
		"locations", len(cells), "snapshot_cells", s.snapshots.size())
	return nil
}

// GenerateInitialHotspots synthesizes the static hotspot ledger.
func (s *Service) GenerateInitialHotspots(n int) error {
	s.hotspots = s.generator.Generate(n)
	s.metrics.HotspotCount.Set(float64(len(s.hotspots)))
	s.logger.Info("hotspots generated", "requested", n, "distinct", len(s.hotspots))
	return nil
}

// GenerateInitialData seeds both record families and marks the service ready.
func (s *Service) GenerateInitialData() error {
	if err := s.GenerateInitialCells(s.cfg.CellCount); err != nil {
		return err
	}
	if err := s.GenerateInitialHotspots(s.cfg.HotspotCount); err != nil {
		return err
	}
	s.ready.Store(true)
	return nil
}

// Start launches the synthetic producer and the flush cycle. Calling Start on
// a running service is a no-op.
func (s *Service) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.metrics.EngineRunning.Set(1)

	s.wg.Add(2)
	go s.produceLoop(ctx)
	go s.flushLoop(ctx)

	s.logger.Info("engine started",
		"produce_interval", s.cfg.ProduceInterval,
		"flush_interval", s.cfg.FlushInterval)
}

// Stop halts both periodic activities and waits for them to release their
// tickers.
func (s *Service) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.metrics.EngineRunning.Set(0)
	s.logger.Info("engine stopped")
}

// produceLoop feeds the accumulator with a small batch of synthetic
// observations every tick. The loop owns its random stream; no other
// goroutine touches it.
func (s *Service) produceLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := s.clock.NewTicker(s.cfg.ProduceInterval)
	defer ticker.Stop()

	r := rand.New(rand.NewSource(s.cfg.Seed ^ producerSeedSalt))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.produceBatch(r)
		}
	}
}

func (s *Service) produceBatch(r *rand.Rand) {
	if len(s.cells) == 0 {
		return
	}
	now := s.clock.Now()
	for i := 0; i < s.cfg.ProduceBatch; i++ {
		c := s.cells[r.Intn(len(s.cells))]
		obs := s.model.ObservationAt(c.loc.Lat, c.loc.Lng, now).WithDefaults()
		s.acc.merge(c.id, obs)
		s.metrics.EventsProduced.Inc()
		s.metrics.EventsIngested.Inc()
	}
}

// flushLoop periodically swaps the snapshot and hands the fresh summaries to
// the publisher when one is configured.
func (s *Service) flushLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := s.clock.NewTicker(s.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			batch := s.Flush()
			if s.publisher != nil && len(batch) > 0 {
				if err := s.publisher.PublishSummaries(ctx, batch); err != nil {
					s.logger.Warn("snapshot publication failed", "error", err)
				}
			}
		}
	}
}

// Flush builds a complete new snapshot from the accumulated totals, publishes
// it atomically, and clears the accumulator. Cells untouched since the last
// flush simply drop out of the new version. Returns the published summaries.
func (s *Service) Flush() []domain.CellSummary {
	start := time.Now()
	now := s.clock.Now()
	prev := s.snapshots.view()
	fallbackNight := environment.IsNight(now)

	var batch []domain.CellSummary
	s.acc.drain(func(cells map[string]*cellTotals) {
		next := make(map[string]domain.CellSummary, len(cells))
		batch = make([]domain.CellSummary, 0, len(cells))
		for id, tot := range cells {
			sum := summarize(id, tot, prev, now, fallbackNight)
			next[id] = sum
			batch = append(batch, sum)
		}
		s.snapshots.replace(next)
	})

	s.metrics.FlushesTotal.Inc()
	s.metrics.FlushDuration.Observe(time.Since(start).Seconds())
	s.metrics.SnapshotCells.Set(float64(len(batch)))
	s.logger.Debug("snapshot flushed", "cells", len(batch))
	return batch
}

// PushRawEvent merges one raw observation into a cell's running totals.
// Absent optional fields take the documented defaults; only an invalid cell
// id is an error.
func (s *Service) PushRawEvent(cellID string, obs domain.Observation) error {
	if err := s.indexer.Validate(cellID); err != nil {
		s.metrics.IngestErrors.Inc()
		return err
	}
	s.acc.merge(cellID, obs.WithDefaults())
	s.metrics.EventsIngested.Inc()
	return nil
}

// AddOrMergeStatistics overlays a partial statistics record onto the cell's
// stored one, field-wise: present fields override, absent fields retain.
func (s *Service) AddOrMergeStatistics(cellID string, partial domain.CellStatistics) error {
	if err := s.indexer.Validate(cellID); err != nil {
		return err
	}
	current, _ := s.stats.get(cellID)
	s.stats.put(cellID, current.Merge(partial).Clone())
	return nil
}
