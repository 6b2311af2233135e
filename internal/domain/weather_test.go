package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRainIntensityScores(t *testing.T) {
	assert.Equal(t, 0.0, RainNone.Score())
	assert.Equal(t, 1.0, RainLow.Score())
	assert.Equal(t, 2.0, RainMedium.Score())
	assert.Equal(t, 4.0, RainHigh.Score())
	assert.Equal(t, 0.0, RainIntensity("DRIZZLE").Score())
}

func TestRoadConditionScores(t *testing.T) {
	assert.Equal(t, 0.0, RoadDry.Score())
	assert.Equal(t, 1.0, RoadWet.Score())
	assert.Equal(t, 2.0, RoadSlippery.Score())
	assert.Equal(t, 3.0, RoadSlipperyIce.Score())
	// SLIPPERY_WET deliberately scores the same as SLIPPERY.
	assert.Equal(t, 2.0, RoadSlipperyWet.Score())
}

func TestObservation_WithDefaults(t *testing.T) {
	frozen := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	obs := Observation{Temperature: 10.0}.WithDefaults()

	require.NotNil(t, obs.Confidence)
	assert.Equal(t, 80.0, *obs.Confidence)
	require.NotNil(t, obs.Count)
	assert.Equal(t, 1.0, *obs.Count)
	require.NotNil(t, obs.RainIntensity)
	assert.Equal(t, RainNone, *obs.RainIntensity)
	require.NotNil(t, obs.RoadCondition)
	assert.Equal(t, RoadDry, *obs.RoadCondition)
	require.NotNil(t, obs.Fog)
	assert.False(t, *obs.Fog)
	require.NotNil(t, obs.Timestamp)
	assert.Equal(t, frozen, *obs.Timestamp)
}

func TestObservation_WithDefaultsKeepsProvidedFields(t *testing.T) {
	conf := 55.0
	rain := RainHigh
	ts := time.Date(2026, time.March, 1, 8, 30, 0, 0, time.UTC)

	obs := Observation{Temperature: -2.5, Confidence: &conf, RainIntensity: &rain, Timestamp: &ts}.WithDefaults()

	assert.Equal(t, 55.0, *obs.Confidence)
	assert.Equal(t, RainHigh, *obs.RainIntensity)
	assert.Equal(t, ts, *obs.Timestamp)
}

func TestCellStatistics_Merge(t *testing.T) {
	oldMax, newMin := 28.4, -11.2
	three, seven := 3, 7

	stored := CellStatistics{TemperatureMax: &oldMax, FogDays: &three}
	merged := stored.Merge(CellStatistics{TemperatureMin: &newMin, FogDays: &seven})

	require.NotNil(t, merged.TemperatureMax)
	assert.Equal(t, 28.4, *merged.TemperatureMax) // retained
	require.NotNil(t, merged.TemperatureMin)
	assert.Equal(t, -11.2, *merged.TemperatureMin) // added
	require.NotNil(t, merged.FogDays)
	assert.Equal(t, 7, *merged.FogDays) // overridden
	assert.Nil(t, merged.SlipperyDays)
}
