package domain

import (
	"fmt"
	"time"
)

// RiskType codes a hotspot's dominant hazard. The integer codes are part of
// the wire contract.
type RiskType int

const (
	RiskSlipperiness RiskType = iota
	RiskAquaplaning
	RiskBlackIce
	RiskCrosswind
)

// HotspotLocation is the anchor coordinate of a hotspot with its spatial
// standard deviation in degrees.
type HotspotLocation struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Sigma float64 `json:"sigma"`
}

// HotspotRisk classifies a hotspot.
type HotspotRisk struct {
	Type               RiskType `json:"type"`
	Importance         int      `json:"importance"`          // 1..5
	Confidence         int      `json:"confidence"`          // 0..100
	ResidualConfidence int      `json:"residual_confidence"` // 0..100
}

// ConditionStat records how often a road condition contributed to a hotspot.
type ConditionStat struct {
	Present bool `json:"present"`
	Count   int  `json:"count"`
}

// HotspotConditions holds per-condition presence counts.
type HotspotConditions struct {
	Dry       ConditionStat `json:"dry"`
	Wet       ConditionStat `json:"wet"`
	Rain      ConditionStat `json:"rain"`
	Slippery  ConditionStat `json:"slippery"`
	Fog       ConditionStat `json:"fog"`
	Crosswind ConditionStat `json:"crosswind"`
}

// Heading is a circular mean and spread of vehicle headings, degrees [0,360).
type Heading struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// TemporalDistribution spreads a hotspot's occurrences over three independent
// axes. Keys: by_week ISO week number 1..52, by_day weekday code
// (MONDAY..SUNDAY), by_time half-hour bucket start ("HH:MM"). Each axis sums
// to the hotspot's total count.
type TemporalDistribution struct {
	ByWeek map[int]int    `json:"by_week"`
	ByDay  map[string]int `json:"by_day"`
	ByTime map[string]int `json:"by_time"`
}

// Hotspot is a static synthetic road-risk record anchored to highway geometry.
type Hotspot struct {
	ID            string               `json:"id"`
	Location      HotspotLocation      `json:"location"`
	Risk          HotspotRisk          `json:"risk"`
	TotalCount    int                  `json:"total_count"`
	WeatherImpact int                  `json:"weather_impact"` // 1..5
	TimeImpact    int                  `json:"time_impact"`    // 1..5
	Conditions    HotspotConditions    `json:"conditions"`
	FirstSeen     time.Time            `json:"first_seen"`
	LastSeen      time.Time            `json:"last_seen"`
	Heading       Heading              `json:"heading"`
	Distribution  TemporalDistribution `json:"distribution"`
}

// HotspotID builds the wire id from a coordinate at 5 decimal places.
func HotspotID(lat, lng float64) string {
	return fmt.Sprintf("%.5f_%.5f", lat, lng)
}

// WeekdayCodes lists the by_day distribution keys in ISO order.
var WeekdayCodes = [7]string{
	"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY",
}

// TimeBucket formats half-hour bucket i (0..47) as its "HH:MM" start.
func TimeBucket(i int) string {
	return fmt.Sprintf("%02d:%02d", i/2, (i%2)*30)
}

// Validate checks the generation invariants: ranges on confidence, importance
// and impacts, total count at least 1, and conservation of the temporal
// distribution against the total count on all three axes.
func (h Hotspot) Validate() error {
	if h.TotalCount < 1 {
		return fmt.Errorf("hotspot %s: total_count %d < 1", h.ID, h.TotalCount)
	}
	if h.Risk.Confidence < 0 || h.Risk.Confidence > 100 {
		return fmt.Errorf("hotspot %s: confidence %d out of [0,100]", h.ID, h.Risk.Confidence)
	}
	if h.Risk.ResidualConfidence < 0 || h.Risk.ResidualConfidence > 100 {
		return fmt.Errorf("hotspot %s: residual_confidence %d out of [0,100]", h.ID, h.Risk.ResidualConfidence)
	}
	if h.Risk.Importance < 1 || h.Risk.Importance > 5 {
		return fmt.Errorf("hotspot %s: importance %d out of [1,5]", h.ID, h.Risk.Importance)
	}
	if h.WeatherImpact < 1 || h.WeatherImpact > 5 || h.TimeImpact < 1 || h.TimeImpact > 5 {
		return fmt.Errorf("hotspot %s: impact scores out of [1,5]", h.ID)
	}
	for axis, sum := range map[string]int{
		"by_week": sumWeek(h.Distribution.ByWeek),
		"by_day":  sumStr(h.Distribution.ByDay),
		"by_time": sumStr(h.Distribution.ByTime),
	} {
		if sum != h.TotalCount {
			return fmt.Errorf("hotspot %s: %s sums to %d, want total_count %d", h.ID, axis, sum, h.TotalCount)
		}
	}
	return nil
}

func sumWeek(m map[int]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}

func sumStr(m map[string]int) int {
	total := 0
	for _, n := range m {
		total += n
	}
	return total
}
