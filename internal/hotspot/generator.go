// Package hotspot synthesizes the static road-risk record set. Generation is
// one-shot: the records never change after creation, and the same seed always
// reproduces the same set.
package hotspot

import (
	"math"
	"math/rand"
	"time"

	"github.com/DanielVondra/cardata-mock/internal/domain"
	"github.com/DanielVondra/cardata-mock/internal/geo"
)

// Generation tuning.
const (
	// Salt mixed into the master seed so hotspot streams never collide with
	// the geo sampler's per-cell streams for the same indexes.
	seedSalt = 0x486f7473 // "Hots"

	positionJitter = 0.002 // degrees around the sampled highway point

	countBase  = 5
	countScale = 500

	lastSeenWindowDays  = 30
	firstSeenMinDays    = 30
	firstSeenSpreadDays = 300

	// Half-hour buckets favored when time-of-day impact is high: morning and
	// evening rush plus the small-hours band.
	highImpactThreshold = 4
)

var rushAndNightBuckets = []int{
	0, 1, 2, 3, 4, 5, // 00:00-03:00
	14, 15, 16, 17, // 07:00-09:00
	32, 33, 34, 35, 36, 37, // 16:00-19:00
	44, 45, 46, 47, // 22:00-24:00
}

// Generator produces hotspot records along the reference highway geometry.
type Generator struct {
	seed     int64
	highways []geo.Polyline
	now      func() time.Time
}

// NewGenerator builds a generator. nil highways selects the packaged autobahn
// geometry; now defaults to wall-clock time and exists for deterministic tests.
func NewGenerator(seed int64, highways []geo.Polyline, now func() time.Time) *Generator {
	if highways == nil {
		highways = geo.Highways
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{seed: seed, highways: highways, now: now}
}

// Generate synthesizes m hotspots keyed by id. Two hotspots landing on the
// same 5-decimal coordinate overwrite each other, so the result may hold
// slightly fewer than m records.
func (g *Generator) Generate(m int) map[string]domain.Hotspot {
	out := make(map[string]domain.Hotspot, m)
	for i := 0; i < m; i++ {
		h := g.generateOne(geo.NewStream(g.seed^seedSalt, int64(i)))
		out[h.ID] = h
	}
	return out
}

func (g *Generator) generateOne(r *rand.Rand) domain.Hotspot {
	line := g.highways[r.Intn(len(g.highways))]
	pt, heading := line.SamplePoint(r)
	lat := pt.Lat + (r.Float64()*2-1)*positionJitter
	lng := pt.Lng + (r.Float64()*2-1)*positionJitter

	// Cubic skew biases toward small counts with a long tail: [5,505).
	u := r.Float64()
	totalCount := countBase + int(math.Floor(u*u*u*float64(countScale)))

	lastSeen := g.now().Add(-time.Duration(r.Float64()*lastSeenWindowDays*24) * time.Hour)
	firstSeen := lastSeen.Add(-time.Duration((firstSeenMinDays+r.Float64()*firstSeenSpreadDays)*24) * time.Hour)

	weatherImpact := 1 + r.Intn(5)
	timeImpact := 1 + r.Intn(5)

	h := domain.Hotspot{
		ID: domain.HotspotID(lat, lng),
		Location: domain.HotspotLocation{
			Lat:   lat,
			Lng:   lng,
			Sigma: 0.0005 + r.Float64()*0.002,
		},
		Risk: domain.HotspotRisk{
			Type:               domain.RiskType(r.Intn(4)),
			Importance:         1 + r.Intn(5),
			Confidence:         r.Intn(101),
			ResidualConfidence: r.Intn(101),
		},
		TotalCount:    totalCount,
		WeatherImpact: weatherImpact,
		TimeImpact:    timeImpact,
		FirstSeen:     firstSeen,
		LastSeen:      lastSeen,
		Heading: domain.Heading{
			Mean:   geo.NormalizeHeading(heading + (r.Float64()*2-1)*10),
			StdDev: 5 + r.Float64()*20,
		},
	}
	h.Conditions = rollConditions(r, totalCount, weatherImpact)
	h.Distribution = rollDistribution(r, totalCount, timeImpact)
	return h
}

// rollConditions derives per-condition counts as total_count times a
// band-dependent fraction times a fresh random factor. A condition is present
// iff its count is positive.
func rollConditions(r *rand.Rand, totalCount, weatherImpact int) domain.HotspotConditions {
	weatherFrac := impactFraction(weatherImpact)
	stat := func(frac float64) domain.ConditionStat {
		n := int(float64(totalCount) * frac * r.Float64())
		return domain.ConditionStat{Present: n > 0, Count: n}
	}
	return domain.HotspotConditions{
		// Dry share shrinks as weather sensitivity grows.
		Dry:       stat(1 - weatherFrac),
		Wet:       stat(weatherFrac),
		Rain:      stat(weatherFrac),
		Slippery:  stat(weatherFrac * 0.6),
		Fog:       stat(weatherFrac * 0.3),
		Crosswind: stat(weatherFrac * 0.2),
	}
}

// impactFraction maps a 1..5 impact score to the fraction band of raw events
// attributable to that factor.
func impactFraction(impact int) float64 {
	switch {
	case impact >= 4:
		return 0.6
	case impact >= 2:
		return 0.3
	default:
		return 0.1
	}
}

// rollDistribution assigns each of the totalCount occurrences to one
// (week, weekday, half-hour bucket) triple. Assigning occurrences one at a
// time conserves every axis sum against totalCount exactly.
func rollDistribution(r *rand.Rand, totalCount, timeImpact int) domain.TemporalDistribution {
	d := domain.TemporalDistribution{
		ByWeek: make(map[int]int),
		ByDay:  make(map[string]int),
		ByTime: make(map[string]int),
	}
	for i := 0; i < totalCount; i++ {
		d.ByWeek[1+r.Intn(52)]++
		d.ByDay[rollWeekday(r)]++
		d.ByTime[domain.TimeBucket(rollTimeBucket(r, timeImpact))]++
	}
	return d
}

// rollWeekday biases 70% of occurrences onto Mon-Fri.
func rollWeekday(r *rand.Rand) string {
	if r.Float64() < 0.7 {
		return domain.WeekdayCodes[r.Intn(5)]
	}
	return domain.WeekdayCodes[5+r.Intn(2)]
}

// rollTimeBucket favors rush-hour and night bands when the time-of-day impact
// is high, otherwise draws uniformly over the 48 half-hour slots.
func rollTimeBucket(r *rand.Rand, timeImpact int) int {
	if timeImpact >= highImpactThreshold {
		return rushAndNightBuckets[r.Intn(len(rushAndNightBuckets))]
	}
	return r.Intn(48)
}
