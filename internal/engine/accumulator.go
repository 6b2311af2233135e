// Package engine holds the simulation/aggregation core: the raw event
// accumulator, the atomically replaced snapshot store, the statistics cache,
// and the service that ties them to the periodic producer and flush loops.
package engine

import (
	"sync"
	"time"

	"github.com/DanielVondra/cardata-mock/internal/domain"
)

// cellTotals is the mutable per-cell running aggregate between two flushes.
// It only ever grows; a flush clears the whole accumulator at once.
type cellTotals struct {
	temperatureSum float64
	eventCount     float64
	confidenceSum  float64
	countSum       float64
	fogVotes       float64
	crosswindVotes float64
	rainScoreSum   float64
	roadScoreSum   float64
	maxTimestamp   time.Time
}

// accumulator collects raw observations per cell. Ingestion happens from the
// producer goroutine, HTTP handlers, and the kafka bridge concurrently; the
// flush cycle is the only consumer.
type accumulator struct {
	mu    sync.Mutex
	cells map[string]*cellTotals
}

func newAccumulator() *accumulator {
	return &accumulator{cells: make(map[string]*cellTotals)}
}

// merge folds one observation (already defaulted) into the cell's totals.
func (a *accumulator) merge(cellID string, obs domain.Observation) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tot, ok := a.cells[cellID]
	if !ok {
		tot = &cellTotals{}
		a.cells[cellID] = tot
	}

	tot.temperatureSum += obs.Temperature
	tot.eventCount++
	tot.confidenceSum += *obs.Confidence
	tot.countSum += *obs.Count
	if *obs.Fog {
		tot.fogVotes++
	}
	if *obs.Crosswind {
		tot.crosswindVotes++
	}
	tot.rainScoreSum += obs.RainIntensity.Score()
	tot.roadScoreSum += obs.RoadCondition.Score()
	if obs.Timestamp.After(tot.maxTimestamp) {
		tot.maxTimestamp = *obs.Timestamp
	}
}

// drain passes the current totals to build under the lock and clears the
// accumulator afterwards. Clearing happens only once build has returned, so
// the new snapshot is committed before any totals are dropped.
func (a *accumulator) drain(build func(cells map[string]*cellTotals)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	build(a.cells)
	a.cells = make(map[string]*cellTotals)
}

// size returns the number of distinct touched cells.
func (a *accumulator) size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.cells)
}
