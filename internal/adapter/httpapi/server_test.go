package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DanielVondra/cardata-mock/internal/adapter/httpapi"
	"github.com/DanielVondra/cardata-mock/internal/domain"
	"github.com/DanielVondra/cardata-mock/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock engine ---

type mockEngine struct {
	readyErr  error
	summaries []domain.CellSummary
	hotspots  []domain.Hotspot

	pushedCell string
	pushedObs  domain.Observation
	pushErr    error

	mergedCell  string
	mergedStats domain.CellStatistics
}

func (m *mockEngine) CheckReadiness(_ context.Context) error { return m.readyErr }

func (m *mockEngine) Snapshot() []domain.CellSummary { return m.summaries }

func (m *mockEngine) SnapshotInBBox(box domain.BoundingBox) ([]domain.CellSummary, error) {
	// The mock places every summary at lat/lng 50,10.
	if !box.Contains(50, 10) {
		return nil, nil
	}
	return m.summaries, nil
}

func (m *mockEngine) Cell(id string, includeStatistics bool) (domain.CellSummary, error) {
	for _, sum := range m.summaries {
		if sum.H3Index == id {
			if includeStatistics {
				temp := 21.5
				sum.Statistics = &domain.CellStatistics{TemperatureMax: &temp}
			}
			return sum, nil
		}
	}
	return domain.CellSummary{}, engine.ErrCellNotFound
}

func (m *mockEngine) Hotspots() []domain.Hotspot { return m.hotspots }

func (m *mockEngine) HotspotsInBBox(box domain.BoundingBox) ([]domain.Hotspot, error) {
	if !box.Contains(50, 10) {
		return nil, nil
	}
	return m.hotspots, nil
}

func (m *mockEngine) PushRawEvent(cellID string, obs domain.Observation) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushedCell = cellID
	m.pushedObs = obs
	return nil
}

func (m *mockEngine) AddOrMergeStatistics(cellID string, partial domain.CellStatistics) error {
	m.mergedCell = cellID
	m.mergedStats = partial
	return nil
}

// --- helpers ---

func testSummaries() []domain.CellSummary {
	return []domain.CellSummary{
		{H3Index: "871faec49ffffff", Confidence: 90, Temperature: 11.5, RainIntensity: domain.RainNone, RoadCondition: domain.RoadDry},
		{H3Index: "871faec4affffff", Confidence: 40, Temperature: 3.0, RainIntensity: domain.RainHigh, RoadCondition: domain.RoadSlippery},
	}
}

func testHotspots() []domain.Hotspot {
	return []domain.Hotspot{
		{ID: "50.10000_10.10000", Risk: domain.HotspotRisk{Type: domain.RiskBlackIce, Confidence: 85}},
		{ID: "51.20000_9.30000", Risk: domain.HotspotRisk{Type: domain.RiskAquaplaning, Confidence: 30}},
	}
}

func doRequest(t *testing.T, eng httpapi.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := httpapi.NewServer(":0", eng, slog.Default())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	srv.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestHealthz(t *testing.T) {
	rec := doRequest(t, &mockEngine{}, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	rec := doRequest(t, &mockEngine{}, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, &mockEngine{readyErr: errors.New("still generating")}, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWeatherList_All(t *testing.T) {
	eng := &mockEngine{summaries: testSummaries()}
	rec := doRequest(t, eng, http.MethodGet, "/v1/weather", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.CellSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestWeatherList_MinConfidence(t *testing.T) {
	eng := &mockEngine{summaries: testSummaries()}
	rec := doRequest(t, eng, http.MethodGet, "/v1/weather?min_confidence=50", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.CellSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "871faec49ffffff", got[0].H3Index)
}

func TestWeatherList_H3Indexes(t *testing.T) {
	eng := &mockEngine{summaries: testSummaries()}
	rec := doRequest(t, eng, http.MethodGet, "/v1/weather?h3_indexes=871faec4affffff,unknown", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.CellSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "871faec4affffff", got[0].H3Index)
}

func TestWeatherList_BBox(t *testing.T) {
	eng := &mockEngine{summaries: testSummaries()}

	rec := doRequest(t, eng, http.MethodGet, "/v1/weather?bbox=5,45,15,55", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.CellSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	rec = doRequest(t, eng, http.MethodGet, "/v1/weather?bbox=100,45,110,55", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got)
}

func TestWeatherList_BadParams(t *testing.T) {
	eng := &mockEngine{summaries: testSummaries()}

	rec := doRequest(t, eng, http.MethodGet, "/v1/weather?bbox=not,a,box", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, eng, http.MethodGet, "/v1/weather?min_confidence=lots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, eng, http.MethodGet, "/v1/weather?min_confidence=250", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeatherCell(t *testing.T) {
	eng := &mockEngine{summaries: testSummaries()}

	rec := doRequest(t, eng, http.MethodGet, "/v1/weather/871faec49ffffff", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.CellSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 90, got.Confidence)
	assert.Nil(t, got.Statistics)

	rec = doRequest(t, eng, http.MethodGet, "/v1/weather/871faec49ffffff?include_statistics=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = domain.CellSummary{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Statistics)
	assert.Equal(t, 21.5, *got.Statistics.TemperatureMax)
}

func TestWeatherCell_NotFound(t *testing.T) {
	eng := &mockEngine{summaries: testSummaries()}
	rec := doRequest(t, eng, http.MethodGet, "/v1/weather/871ffffffffffff", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPushEvent(t *testing.T) {
	eng := &mockEngine{}
	rec := doRequest(t, eng, http.MethodPost, "/v1/weather/871faec49ffffff/events",
		`{"temperature":10.0,"rain_intensity":"LOW"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.Equal(t, "871faec49ffffff", eng.pushedCell)
	assert.Equal(t, 10.0, eng.pushedObs.Temperature)
	require.NotNil(t, eng.pushedObs.RainIntensity)
	assert.Equal(t, domain.RainLow, *eng.pushedObs.RainIntensity)
}

func TestPushEvent_Rejected(t *testing.T) {
	eng := &mockEngine{pushErr: errors.New("invalid cell id")}
	rec := doRequest(t, eng, http.MethodPost, "/v1/weather/garbage/events", `{"temperature":1.0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, &mockEngine{}, http.MethodPost, "/v1/weather/871faec49ffffff/events", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutStatistics(t *testing.T) {
	eng := &mockEngine{}
	rec := doRequest(t, eng, http.MethodPut, "/v1/weather/871faec49ffffff/statistics",
		`{"fog_days":12}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, "871faec49ffffff", eng.mergedCell)
	require.NotNil(t, eng.mergedStats.FogDays)
	assert.Equal(t, 12, *eng.mergedStats.FogDays)
}

func TestHotspots_Filters(t *testing.T) {
	eng := &mockEngine{hotspots: testHotspots()}

	rec := doRequest(t, eng, http.MethodGet, "/v1/hotspots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Hotspot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	rec = doRequest(t, eng, http.MethodGet, "/v1/hotspots?min_confidence=50", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, domain.RiskBlackIce, got[0].Risk.Type)

	rec = doRequest(t, eng, http.MethodGet, "/v1/hotspots?type=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, domain.RiskAquaplaning, got[0].Risk.Type)
}

func TestHotspots_BadType(t *testing.T) {
	eng := &mockEngine{hotspots: testHotspots()}

	rec := doRequest(t, eng, http.MethodGet, "/v1/hotspots?type=9", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, eng, http.MethodGet, "/v1/hotspots?type=icy", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
