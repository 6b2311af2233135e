package engine

import (
	"fmt"
	"sort"

	"github.com/DanielVondra/cardata-mock/internal/domain"
)

// Snapshot returns independent copies of every summary in the live snapshot
// version, ordered by cell id.
func (s *Service) Snapshot() []domain.CellSummary {
	return s.snapshots.all()
}

// Hotspots returns independent copies of the static hotspot ledger, ordered
// by id.
func (s *Service) Hotspots() []domain.Hotspot {
	out := make([]domain.Hotspot, 0, len(s.hotspots))
	for _, h := range s.hotspots {
		out = append(out, copyHotspot(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Cell returns a copy of one cell's summary. With includeStatistics the
// long-term statistics are attached, computed once on first request and then
// cached for the remaining process lifetime.
func (s *Service) Cell(id string, includeStatistics bool) (domain.CellSummary, error) {
	if err := s.indexer.Validate(id); err != nil {
		return domain.CellSummary{}, err
	}
	sum, ok := s.snapshots.get(id)
	if !ok {
		return domain.CellSummary{}, fmt.Errorf("%w: %s", ErrCellNotFound, id)
	}
	if includeStatistics {
		stats := s.statisticsFor(sum)
		sum.Statistics = &stats
	}
	return sum, nil
}

func (s *Service) statisticsFor(sum domain.CellSummary) domain.CellStatistics {
	stats, hit := s.stats.getOrPut(sum.H3Index, func() domain.CellStatistics {
		s.statsMu.Lock()
		defer s.statsMu.Unlock()
		return computeStatistics(sum, s.clock.Now(), s.statsRand)
	})
	if hit {
		s.metrics.StatisticsCache.WithLabelValues("hit").Inc()
	} else {
		s.metrics.StatisticsCache.WithLabelValues("miss").Inc()
	}
	return stats.Clone()
}

// SnapshotInBBox filters the live snapshot to cells whose representative
// coordinate lies inside the box, bounds inclusive.
func (s *Service) SnapshotInBBox(box domain.BoundingBox) ([]domain.CellSummary, error) {
	view := s.snapshots.view()
	out := make([]domain.CellSummary, 0)
	for id, sum := range view {
		lat, lng, err := s.indexer.CellCenter(id)
		if err != nil {
			return nil, fmt.Errorf("engine: invert cell %s: %w", id, err)
		}
		if box.Contains(lat, lng) {
			out = append(out, sum)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].H3Index < out[j].H3Index })
	return out, nil
}

// HotspotsInBBox filters the hotspot ledger by its stored coordinates,
// bounds inclusive.
func (s *Service) HotspotsInBBox(box domain.BoundingBox) ([]domain.Hotspot, error) {
	out := make([]domain.Hotspot, 0)
	for _, h := range s.hotspots {
		if box.Contains(h.Location.Lat, h.Location.Lng) {
			out = append(out, copyHotspot(h))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// copyHotspot deep-copies the distribution maps so callers can never reach
// the stored record.
func copyHotspot(h domain.Hotspot) domain.Hotspot {
	byWeek := make(map[int]int, len(h.Distribution.ByWeek))
	for k, v := range h.Distribution.ByWeek {
		byWeek[k] = v
	}
	byDay := make(map[string]int, len(h.Distribution.ByDay))
	for k, v := range h.Distribution.ByDay {
		byDay[k] = v
	}
	byTime := make(map[string]int, len(h.Distribution.ByTime))
	for k, v := range h.Distribution.ByTime {
		byTime[k] = v
	}
	h.Distribution = domain.TemporalDistribution{ByWeek: byWeek, ByDay: byDay, ByTime: byTime}
	return h
}
