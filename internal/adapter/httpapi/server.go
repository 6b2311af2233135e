package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/DanielVondra/cardata-mock/internal/domain"
	"github.com/DanielVondra/cardata-mock/internal/engine"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the query and ingestion surface the HTTP layer exposes.
// *engine.Service satisfies it.
type Engine interface {
	CheckReadiness(ctx context.Context) error
	Snapshot() []domain.CellSummary
	SnapshotInBBox(box domain.BoundingBox) ([]domain.CellSummary, error)
	Cell(id string, includeStatistics bool) (domain.CellSummary, error)
	Hotspots() []domain.Hotspot
	HotspotsInBBox(box domain.BoundingBox) ([]domain.Hotspot, error)
	PushRawEvent(cellID string, obs domain.Observation) error
	AddOrMergeStatistics(cellID string, partial domain.CellStatistics) error
}

// Server exposes the weather and hotspot API plus health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	eng        Engine
	logger     *slog.Logger
}

// NewServer wires all routes onto a stdlib mux.
func NewServer(addr string, eng Engine, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		eng:    eng,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/weather", s.handleWeatherList)
	mux.HandleFunc("GET /v1/weather/{h3Index}", s.handleWeatherCell)
	mux.HandleFunc("POST /v1/weather/{h3Index}/events", s.handlePushEvent)
	mux.HandleFunc("PUT /v1/weather/{h3Index}/statistics", s.handlePutStatistics)
	mux.HandleFunc("GET /v1/hotspots", s.handleHotspots)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.eng.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleWeatherList serves the current snapshot, optionally restricted by
// bbox, an explicit h3_indexes list, and a minimum confidence. All filter
// parsing happens before any snapshot scan.
func (s *Server) handleWeatherList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minConfidence, ok := parseMinConfidence(w, q.Get("min_confidence"))
	if !ok {
		return
	}

	var wanted []string
	if raw := q.Get("h3_indexes"); raw != "" {
		wanted = strings.Split(raw, ",")
	}

	var summaries []domain.CellSummary
	if raw := q.Get("bbox"); raw != "" {
		box, err := domain.ParseBBox(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		summaries, err = s.eng.SnapshotInBBox(box)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	} else {
		summaries = s.eng.Snapshot()
	}

	filtered := summaries[:0:0]
	for _, sum := range summaries {
		if sum.Confidence < minConfidence {
			continue
		}
		if wanted != nil && !slices.Contains(wanted, sum.H3Index) {
			continue
		}
		filtered = append(filtered, sum)
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) handleWeatherCell(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("h3Index")
	includeStats := r.URL.Query().Get("include_statistics") == "true"

	sum, err := s.eng.Cell(id, includeStats)
	if err != nil {
		if errors.Is(err, engine.ErrCellNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handlePushEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("h3Index")

	var obs domain.Observation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.eng.PushRawEvent(id, obs); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handlePutStatistics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("h3Index")

	var partial domain.CellStatistics
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.eng.AddOrMergeStatistics(id, partial); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHotspots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minConfidence, ok := parseMinConfidence(w, q.Get("min_confidence"))
	if !ok {
		return
	}

	riskType := -1
	if raw := q.Get("type"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < int(domain.RiskSlipperiness) || n > int(domain.RiskCrosswind) {
			writeError(w, http.StatusBadRequest, errors.New("type must be a risk code 0..3"))
			return
		}
		riskType = n
	}

	var hotspots []domain.Hotspot
	if raw := q.Get("bbox"); raw != "" {
		box, err := domain.ParseBBox(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		hotspots, err = s.eng.HotspotsInBBox(box)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	} else {
		hotspots = s.eng.Hotspots()
	}

	filtered := hotspots[:0:0]
	for _, h := range hotspots {
		if h.Risk.Confidence < minConfidence {
			continue
		}
		if riskType >= 0 && h.Risk.Type != domain.RiskType(riskType) {
			continue
		}
		filtered = append(filtered, h)
	}
	writeJSON(w, http.StatusOK, filtered)
}

// parseMinConfidence validates an optional min_confidence parameter and
// writes a 400 on failure.
func parseMinConfidence(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 100 {
		writeError(w, http.StatusBadRequest, errors.New("min_confidence must be an integer in [0,100]"))
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
