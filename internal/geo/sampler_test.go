package geo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_Deterministic(t *testing.T) {
	a := NewSampler(42, nil, nil).Generate(500)
	b := NewSampler(42, nil, nil).Generate(500)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different samples (-a +b):\n%s", diff)
	}
}

func TestSampler_SeedChangesOutput(t *testing.T) {
	a := NewSampler(42, nil, nil).Generate(100)
	b := NewSampler(43, nil, nil).Generate(100)
	assert.NotEqual(t, a, b)
}

func TestSampler_ExactCount(t *testing.T) {
	locs := NewSampler(42, nil, nil).Generate(100)
	assert.Len(t, locs, 100)
}

func TestSampler_PrefixStable(t *testing.T) {
	// Per-sample streams derive from (i XOR seed), so growing the target
	// count must not perturb earlier samples.
	short := NewSampler(7, nil, nil).Generate(50)
	long := NewSampler(7, nil, nil).Generate(200)
	assert.Equal(t, short, long[:50])
}

func TestSampler_OutputStaysNearGermany(t *testing.T) {
	locs := NewSampler(1, nil, nil).Generate(2000)
	for _, l := range locs {
		assert.InDelta(t, 51.0, l.Lat, 8.0, "lat far outside reference geography")
		assert.InDelta(t, 10.0, l.Lng, 10.0, "lng far outside reference geography")
	}
}

func TestSampler_RoadShare(t *testing.T) {
	locs := NewSampler(99, nil, nil).Generate(5000)
	onRoad := 0
	for _, l := range locs {
		if l.OnRoad {
			onRoad++
			assert.GreaterOrEqual(t, l.Heading, 0.0)
			assert.Less(t, l.Heading, 360.0)
		}
	}
	// Highway bands cover 17% of the draw; allow generous sampling noise.
	share := float64(onRoad) / float64(len(locs))
	assert.InDelta(t, 0.17, share, 0.03)
}

func TestPickWeighted_FollowsWeights(t *testing.T) {
	items := []Weighted[string]{
		{Item: "heavy", Weight: 9},
		{Item: "light", Weight: 1},
	}
	r := rand.New(rand.NewSource(1))
	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[PickWeighted(r, items)]++
	}
	assert.InDelta(t, 9000, counts["heavy"], 300)
	assert.InDelta(t, 1000, counts["light"], 300)
}

func TestPickWeighted_SkipsZeroWeight(t *testing.T) {
	items := []Weighted[string]{
		{Item: "never", Weight: 0},
		{Item: "always", Weight: 1},
	}
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		assert.Equal(t, "always", PickWeighted(r, items))
	}
}

func TestPolyline_PointAtInterpolates(t *testing.T) {
	line := Polyline{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 2}, {Lat: 2, Lng: 2}}

	pt, heading := line.PointAt(1)
	assert.InDelta(t, 0.0, pt.Lat, 1e-9)
	assert.InDelta(t, 1.0, pt.Lng, 1e-9)
	assert.InDelta(t, 90.0, heading, 1e-9) // due east

	pt, heading = line.PointAt(3)
	assert.InDelta(t, 1.0, pt.Lat, 1e-9)
	assert.InDelta(t, 2.0, pt.Lng, 1e-9)
	assert.InDelta(t, 0.0, heading, 1e-9) // due north
}

func TestPolyline_PointAtClampsEnds(t *testing.T) {
	line := Polyline{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}}

	pt, _ := line.PointAt(-5)
	assert.Equal(t, Point{Lat: 0, Lng: 0}, pt)

	pt, _ = line.PointAt(99)
	assert.Equal(t, Point{Lat: 0, Lng: 1}, pt)
}

func TestPolyline_SamplePointOnLine(t *testing.T) {
	line := Polyline{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 10}}
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		pt, _ := line.SamplePoint(r)
		assert.InDelta(t, 0.0, pt.Lat, 1e-9)
		assert.GreaterOrEqual(t, pt.Lng, 0.0)
		assert.LessOrEqual(t, pt.Lng, 10.0)
	}
}

func TestNormalizeHeading(t *testing.T) {
	assert.InDelta(t, 0.0, NormalizeHeading(360), 1e-9)
	assert.InDelta(t, 270.0, NormalizeHeading(-90), 1e-9)
	assert.InDelta(t, 10.0, NormalizeHeading(730), 1e-9)
}

func TestReferenceHighwaysAreUsable(t *testing.T) {
	require.NotEmpty(t, Highways)
	for i, line := range Highways {
		require.GreaterOrEqual(t, len(line), 2, "highway %d too short", i)
		assert.False(t, math.IsNaN(line.Length()))
		assert.Greater(t, line.Length(), 0.0)
	}
}
