package domain

import "time"

// RainIntensity is the categorical precipitation level of a cell.
type RainIntensity string

// Rain intensity wire values.
const (
	RainNone   RainIntensity = "NONE"
	RainLow    RainIntensity = "LOW"
	RainMedium RainIntensity = "MEDIUM"
	RainHigh   RainIntensity = "HIGH"
)

// Score returns the fixed ordinal accumulation score for the intensity.
// Unknown values score 0.
func (r RainIntensity) Score() float64 {
	switch r {
	case RainLow:
		return 1
	case RainMedium:
		return 2
	case RainHigh:
		return 4
	default:
		return 0
	}
}

// Valid reports whether the value is one of the wire enumeration members.
func (r RainIntensity) Valid() bool {
	switch r {
	case RainNone, RainLow, RainMedium, RainHigh:
		return true
	}
	return false
}

// RoadCondition is the categorical road-surface state of a cell.
type RoadCondition string

// Road condition wire values.
const (
	RoadDry         RoadCondition = "DRY"
	RoadWet         RoadCondition = "WET"
	RoadSlippery    RoadCondition = "SLIPPERY"
	RoadSlipperyIce RoadCondition = "SLIPPERY_ICE"
	RoadSlipperyWet RoadCondition = "SLIPPERY_WET"
)

// Score returns the fixed ordinal accumulation score for the condition.
// Unknown values score 0.
func (c RoadCondition) Score() float64 {
	switch c {
	case RoadWet:
		return 1
	case RoadSlippery, RoadSlipperyWet:
		return 2
	case RoadSlipperyIce:
		return 3
	default:
		return 0
	}
}

// Valid reports whether the value is one of the wire enumeration members.
func (c RoadCondition) Valid() bool {
	switch c {
	case RoadDry, RoadWet, RoadSlippery, RoadSlipperyIce, RoadSlipperyWet:
		return true
	}
	return false
}

// Observation is one raw weather report for a cell, either synthesized by the
// background producer or pushed in by an external integration. Temperature is
// the only required field; nil optional fields take the documented defaults.
type Observation struct {
	Temperature   float64        `json:"temperature"`
	Confidence    *float64       `json:"confidence,omitempty"`
	Count         *float64       `json:"count,omitempty"`
	Fog           *bool          `json:"fog,omitempty"`
	Crosswind     *bool          `json:"crosswind,omitempty"`
	RainIntensity *RainIntensity `json:"rain_intensity,omitempty"`
	RoadCondition *RoadCondition `json:"road_condition,omitempty"`
	Timestamp     *time.Time     `json:"timestamp,omitempty"`
}

// Observation defaults applied at ingestion for absent optional fields.
const (
	DefaultConfidence = 80.0
	DefaultCount      = 1.0
)

// WithDefaults returns a copy of the observation with every nil optional
// field replaced by its documented default. The timestamp default comes from
// the package clock.
func (o Observation) WithDefaults() Observation {
	if o.Confidence == nil {
		c := DefaultConfidence
		o.Confidence = &c
	}
	if o.Count == nil {
		n := DefaultCount
		o.Count = &n
	}
	if o.Fog == nil {
		f := false
		o.Fog = &f
	}
	if o.Crosswind == nil {
		w := false
		o.Crosswind = &w
	}
	if o.RainIntensity == nil {
		r := RainNone
		o.RainIntensity = &r
	}
	if o.RoadCondition == nil {
		r := RoadDry
		o.RoadCondition = &r
	}
	if o.Timestamp == nil {
		t := clock.Now()
		o.Timestamp = &t
	}
	return o
}

// CellSummary is the externally visible weather record for one grid cell.
// Immutable once published in a snapshot.
type CellSummary struct {
	H3Index       string          `json:"h3_index"`
	LastUpdated   time.Time       `json:"last_updated"`
	Confidence    int             `json:"confidence"`
	TotalCount    int             `json:"total_count"`
	Temperature   float64         `json:"temperature"`
	RainIntensity RainIntensity   `json:"rain_intensity"`
	RoadCondition RoadCondition   `json:"road_condition"`
	Fog           bool            `json:"fog"`
	Crosswind     bool            `json:"crosswind"`
	IsNight       bool            `json:"is_night"`
	Statistics    *CellStatistics `json:"statistics,omitempty"`
}

// CellStatistics holds lazily computed long-term statistics of a cell.
// Pointer fields distinguish "absent" from zero so external partial updates
// can be merged field-wise.
type CellStatistics struct {
	TemperatureMax   *float64   `json:"temperature_max,omitempty"`
	TemperatureMaxTS *time.Time `json:"temperature_max_ts,omitempty"`
	TemperatureMin   *float64   `json:"temperature_min,omitempty"`
	TemperatureMinTS *time.Time `json:"temperature_min_ts,omitempty"`
	RainDaysLow      *int       `json:"rain_days_low,omitempty"`
	RainDaysMedium   *int       `json:"rain_days_medium,omitempty"`
	RainDaysHigh     *int       `json:"rain_days_high,omitempty"`
	SlipperyDays     *int       `json:"slippery_days,omitempty"`
	FogDays          *int       `json:"fog_days,omitempty"`
	CrosswindDays    *int       `json:"crosswind_days,omitempty"`
}

// Clone returns a deep copy so callers can never reach a stored record
// through the pointer fields.
func (s CellStatistics) Clone() CellStatistics {
	cf := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	ct := func(p *time.Time) *time.Time {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	ci := func(p *int) *int {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	return CellStatistics{
		TemperatureMax:   cf(s.TemperatureMax),
		TemperatureMaxTS: ct(s.TemperatureMaxTS),
		TemperatureMin:   cf(s.TemperatureMin),
		TemperatureMinTS: ct(s.TemperatureMinTS),
		RainDaysLow:      ci(s.RainDaysLow),
		RainDaysMedium:   ci(s.RainDaysMedium),
		RainDaysHigh:     ci(s.RainDaysHigh),
		SlipperyDays:     ci(s.SlipperyDays),
		FogDays:          ci(s.FogDays),
		CrosswindDays:    ci(s.CrosswindDays),
	}
}

// Merge overlays partial onto the receiver: fields present in partial replace
// the stored value, absent fields retain it. Returns the merged result.
func (s CellStatistics) Merge(partial CellStatistics) CellStatistics {
	if partial.TemperatureMax != nil {
		s.TemperatureMax = partial.TemperatureMax
	}
	if partial.TemperatureMaxTS != nil {
		s.TemperatureMaxTS = partial.TemperatureMaxTS
	}
	if partial.TemperatureMin != nil {
		s.TemperatureMin = partial.TemperatureMin
	}
	if partial.TemperatureMinTS != nil {
		s.TemperatureMinTS = partial.TemperatureMinTS
	}
	if partial.RainDaysLow != nil {
		s.RainDaysLow = partial.RainDaysLow
	}
	if partial.RainDaysMedium != nil {
		s.RainDaysMedium = partial.RainDaysMedium
	}
	if partial.RainDaysHigh != nil {
		s.RainDaysHigh = partial.RainDaysHigh
	}
	if partial.SlipperyDays != nil {
		s.SlipperyDays = partial.SlipperyDays
	}
	if partial.FogDays != nil {
		s.FogDays = partial.FogDays
	}
	if partial.CrosswindDays != nil {
		s.CrosswindDays = partial.CrosswindDays
	}
	return s
}
