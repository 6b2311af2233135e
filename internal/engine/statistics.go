package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/DanielVondra/cardata-mock/internal/domain"
)

// statsCache is a thread-safe LRU of lazily computed per-cell statistics.
// First writer wins per cell; entries are never invalidated by a flush, so
// long-term statistics deliberately stay frozen against the live summary.
// The bound keeps tens of thousands of cells from growing without limit.
type statsCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*statsEntry
	head       *statsEntry // most recently used
	tail       *statsEntry // least recently used
}

type statsEntry struct {
	key   string
	value domain.CellStatistics
	prev  *statsEntry
	next  *statsEntry
}

func newStatsCache(maxEntries int) *statsCache {
	return &statsCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*statsEntry),
	}
}

func (c *statsCache) get(key string) (domain.CellStatistics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.CellStatistics{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *statsCache) put(key string, value domain.CellStatistics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &statsEntry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

// getOrPut returns the cached value for key, or stores compute() and returns
// it. The first stored value wins over concurrent computations.
func (c *statsCache) getOrPut(key string, compute func() domain.CellStatistics) (domain.CellStatistics, bool) {
	if v, ok := c.get(key); ok {
		return v, true
	}
	v := compute()

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.moveToFront(e)
		return e.value, true
	}
	e := &statsEntry{key: key, value: v}
	c.entries[key] = e
	c.addToFront(e)
	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
	return v, false
}

func (c *statsCache) moveToFront(e *statsEntry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *statsCache) addToFront(e *statsEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *statsCache) remove(e *statsEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *statsCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}

// computeStatistics synthesizes plausible long-term statistics from a cell's
// current summary: temperature extremes as random offsets from the current
// temperature, day histograms scaled from the total count and the current
// condition flags.
func computeStatistics(sum domain.CellSummary, now time.Time, r *rand.Rand) domain.CellStatistics {
	maxTemp := sum.Temperature + 4 + r.Float64()*14
	minTemp := sum.Temperature - 4 - r.Float64()*18
	maxTS := now.AddDate(0, 0, -r.Intn(365))
	minTS := now.AddDate(0, 0, -r.Intn(365))

	days := sum.TotalCount
	if days > 365 {
		days = 365
	}
	scaled := func(frac float64) *int {
		n := int(float64(days) * frac * r.Float64())
		return &n
	}

	stats := domain.CellStatistics{
		TemperatureMax:   &maxTemp,
		TemperatureMaxTS: &maxTS,
		TemperatureMin:   &minTemp,
		TemperatureMinTS: &minTS,
		RainDaysLow:      scaled(0.30),
		RainDaysMedium:   scaled(0.15),
		RainDaysHigh:     scaled(0.05),
		SlipperyDays:     scaled(0.06),
		FogDays:          scaled(0.08),
		CrosswindDays:    scaled(0.05),
	}

	// Current conditions guarantee at least one matching history day.
	if sum.RainIntensity != domain.RainNone && *stats.RainDaysLow == 0 {
		one := 1
		stats.RainDaysLow = &one
	}
	if sum.RoadCondition != domain.RoadDry && sum.RoadCondition != domain.RoadWet && *stats.SlipperyDays == 0 {
		one := 1
		stats.SlipperyDays = &one
	}
	if sum.Fog && *stats.FogDays == 0 {
		one := 1
		stats.FogDays = &one
	}
	if sum.Crosswind && *stats.CrosswindDays == 0 {
		one := 1
		stats.CrosswindDays = &one
	}
	return stats
}
