// Package environment derives a plausible weather observation from a location
// and a point in time. The model is a pure function: the same (lat, lng,
// time, seed) always yields the same observation.
package environment

import (
	"math"
	"math/rand"
	"time"

	"github.com/DanielVondra/cardata-mock/internal/domain"
)

// Tuning of the synthetic climate.
const (
	seasonalAmplitude = 12.0 // °C swing between winter and summer
	temperatureNoise  = 3.0  // bounded uniform noise, ±
	localUTCOffset    = 1    // CET without DST, good enough for night detection

	fogNightColdChance  = 0.18
	fogBackgroundChance = 0.02
	crosswindChance     = 0.05
)

// Model produces observations for the reference geography.
type Model struct {
	seed int64
}

// NewModel creates a model with its own independent seed.
func NewModel(seed int64) *Model {
	return &Model{seed: seed}
}

// ObservationAt computes the weather at (lat, lng) at time t.
func (m *Model) ObservationAt(lat, lng float64, t time.Time) domain.Observation {
	r := m.stream(lat, lng, t)

	temp := temperatureAt(lat, t, r)
	night := IsNight(t)
	rain := rollRain(r, t)
	road := classifyRoad(rain, temp)
	fog := rollFog(r, night, temp)
	crosswind := r.Float64() < crosswindChance

	ts := t
	return domain.Observation{
		Temperature:   temp,
		Fog:           &fog,
		Crosswind:     &crosswind,
		RainIntensity: &rain,
		RoadCondition: &road,
		Timestamp:     &ts,
	}
}

// stream derives a deterministic random stream from the model seed and the
// coordinate/time inputs, so each (location, time) pair draws independently.
func (m *Model) stream(lat, lng float64, t time.Time) *rand.Rand {
	h := uint64(m.seed)
	for _, bits := range []uint64{
		math.Float64bits(lat),
		math.Float64bits(lng),
		uint64(t.Unix()),
	} {
		h ^= bits
		h *= 0x100000001b3 // FNV-1a prime
	}
	return rand.New(rand.NewSource(int64(h)))
}

// temperatureAt is a latitude-gradient baseline plus a seasonal sine term and
// bounded noise, rounded to one decimal.
func temperatureAt(lat float64, t time.Time, r *rand.Rand) float64 {
	baseline := 35.0 - 0.55*lat
	phase := 2 * math.Pi * float64(t.YearDay()) / 365.0
	// Shift so the peak lands in mid-July for the northern hemisphere.
	seasonal := seasonalAmplitude * math.Sin(phase-math.Pi/2+0.35)
	noise := (r.Float64()*2 - 1) * temperatureNoise
	return math.Round((baseline+seasonal+noise)*10) / 10
}

// isNight reports whether the local (UTC+1) hour falls in [0,6) or [21,24).
func IsNight(t time.Time) bool {
	hour := (t.UTC().Hour() + localUTCOffset) % 24
	return hour < 6 || hour >= 21
}

// rainBaseChance scales the precipitation probability with the season: wetter
// in winter, drier in mid-summer.
func rainBaseChance(t time.Time) float64 {
	phase := 2 * math.Pi * float64(t.YearDay()) / 365.0
	return 0.22 + 0.08*math.Cos(phase)
}

// rollRain partitions [0, base) into LOW / MEDIUM / HIGH slices: a roll below
// 70% of the base chance is LOW, below 90% MEDIUM, the rest HIGH.
func rollRain(r *rand.Rand, t time.Time) domain.RainIntensity {
	base := rainBaseChance(t)
	roll := r.Float64()
	switch {
	case roll >= base:
		return domain.RainNone
	case roll <= 0.7*base:
		return domain.RainLow
	case roll <= 0.9*base:
		return domain.RainMedium
	default:
		return domain.RainHigh
	}
}

// classifyRoad derives the road condition from rain intensity and temperature.
func classifyRoad(rain domain.RainIntensity, temp float64) domain.RoadCondition {
	if rain == domain.RainMedium || rain == domain.RainHigh {
		switch {
		case temp <= -5:
			return domain.RoadSlipperyIce
		case temp <= 0:
			return domain.RoadSlippery
		case rain == domain.RainHigh:
			return domain.RoadSlipperyWet
		default:
			return domain.RoadWet
		}
	}
	if temp <= -8 {
		return domain.RoadSlipperyIce
	}
	return domain.RoadDry
}

// rollFog has an elevated chance on cold nights plus a small flat background.
func rollFog(r *rand.Rand, night bool, temp float64) bool {
	chance := fogBackgroundChance
	if night && temp < 4 {
		chance = fogNightColdChance
	}
	return r.Float64() < chance
}
