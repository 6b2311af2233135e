package engine

import (
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/DanielVondra/cardata-mock/internal/domain"
)

// snapshotStore publishes an immutable-per-version cell mapping behind a
// single atomic pointer. Readers always see exactly one fully built version;
// the flush cycle swaps in a complete replacement and never mutates a
// published map.
type snapshotStore struct {
	current atomic.Pointer[map[string]domain.CellSummary]
}

func newSnapshotStore() *snapshotStore {
	s := &snapshotStore{}
	empty := map[string]domain.CellSummary{}
	s.current.Store(&empty)
	return s
}

// replace atomically publishes a new version. The caller hands over ownership
// of m and must not touch it afterwards.
func (s *snapshotStore) replace(m map[string]domain.CellSummary) {
	s.current.Store(&m)
}

// view returns the live version for internal read-only use.
func (s *snapshotStore) view() map[string]domain.CellSummary {
	return *s.current.Load()
}

// get returns an independent copy of one cell's summary.
func (s *snapshotStore) get(id string) (domain.CellSummary, bool) {
	sum, ok := s.view()[id]
	return sum, ok
}

// all returns independent copies of every summary, ordered by cell id for
// stable output.
func (s *snapshotStore) all() []domain.CellSummary {
	m := s.view()
	out := make([]domain.CellSummary, 0, len(m))
	for _, sum := range m {
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].H3Index < out[j].H3Index })
	return out
}

func (s *snapshotStore) size() int {
	return len(s.view())
}

// Flush-time classification thresholds on mean ordinal scores.
const (
	rainMeanHigh   = 3.0
	rainMeanMedium = 1.2
	rainMeanLow    = 0.6

	roadMeanIce      = 2.5
	roadMeanSlippery = 1.8
	roadMeanWet      = 0.8

	fogVoteRatio       = 0.5
	crosswindVoteRatio = 0.2
)

// summarize reduces one cell's accumulated totals to its published summary.
// isNight is inherited from the previous snapshot entry when present,
// otherwise approximated from the wall clock by the caller via fallbackNight.
func summarize(id string, tot *cellTotals, prev map[string]domain.CellSummary, now time.Time, fallbackNight bool) domain.CellSummary {
	n := tot.eventCount

	confidence := int(math.Round(tot.confidenceSum / n))
	if confidence < 0 {
		confidence = 0
	} else if confidence > 100 {
		confidence = 100
	}

	totalCount := int(math.Round(tot.countSum))
	if totalCount < 1 {
		totalCount = 1
	}

	lastUpdated := tot.maxTimestamp
	if lastUpdated.IsZero() {
		lastUpdated = now
	}

	isNight := fallbackNight
	if prevSum, ok := prev[id]; ok {
		isNight = prevSum.IsNight
	}

	return domain.CellSummary{
		H3Index:       id,
		LastUpdated:   lastUpdated,
		Confidence:    confidence,
		TotalCount:    totalCount,
		Temperature:   math.Round(tot.temperatureSum/n*10) / 10,
		RainIntensity: classifyRainMean(tot.rainScoreSum / n),
		RoadCondition: classifyRoadMean(tot.roadScoreSum / n),
		Fog:           tot.fogVotes/n >= fogVoteRatio,
		Crosswind:     tot.crosswindVotes/n >= crosswindVoteRatio,
		IsNight:       isNight,
	}
}

func classifyRainMean(mean float64) domain.RainIntensity {
	switch {
	case mean >= rainMeanHigh:
		return domain.RainHigh
	case mean >= rainMeanMedium:
		return domain.RainMedium
	case mean >= rainMeanLow:
		return domain.RainLow
	default:
		return domain.RainNone
	}
}

func classifyRoadMean(mean float64) domain.RoadCondition {
	switch {
	case mean >= roadMeanIce:
		return domain.RoadSlipperyIce
	case mean >= roadMeanSlippery:
		return domain.RoadSlippery
	case mean >= roadMeanWet:
		return domain.RoadWet
	default:
		return domain.RoadDry
	}
}
