package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/trip-analytics/internal/analysis"
	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/couchcryptid/trip-analytics/internal/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DatasetProvider returns the currently loaded dataset, or nil before the
// first load.
type DatasetProvider interface {
	Dataset() *domain.Dataset
}

// Backend is what the server needs from the pipeline.
type Backend interface {
	sharedobs.ReadinessChecker
	DatasetProvider
}

// ViewRenderer renders a named analysis view.
type ViewRenderer interface {
	Render(view string, trips []domain.Trip) (any, error)
}

// Server exposes health, readiness, metrics, and the analysis API.
type Server struct {
	httpServer *http.Server
	backend    Backend
	views      ViewRenderer
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the
// /api routes.
func NewServer(addr string, backend Backend, views ViewRenderer, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		backend: backend,
		views:   views,
		metrics: metrics,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(backend))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/trips", s.handleTrips)
	mux.HandleFunc("GET /api/views", s.handleViewList)
	mux.HandleFunc("GET /api/views/{name}", s.handleView)

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

type tripsResponse struct {
	LoadID string        `json:"load_id"`
	Total  int           `json:"total"`
	Trips  []domain.Trip `json:"trips"`
}

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}

	limit := analysis.DefaultPreviewRows
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, tripsResponse{
		LoadID: ds.LoadID,
		Total:  ds.Len(),
		Trips:  analysis.Preview(ds.Trips, limit),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	ds, ok := s.dataset(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysis.Summarize(ds))
}

func (s *Server) handleViewList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"views": analysis.ViewNames})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !slices.Contains(analysis.ViewNames, name) {
		writeError(w, http.StatusNotFound, "unknown view "+strconv.Quote(name))
		return
	}

	ds, ok := s.dataset(w)
	if !ok {
		return
	}

	v, err := s.views.Render(name, ds.Trips)
	switch {
	case errors.Is(err, analysis.ErrUnknownView):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Error("render view failed", "view", name, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.ViewRenders.WithLabelValues(name).Inc()
	writeJSON(w, http.StatusOK, v)
}

// dataset writes a 503 and returns false when nothing is loaded yet.
func (s *Server) dataset(w http.ResponseWriter) (*domain.Dataset, bool) {
	ds := s.backend.Dataset()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "dataset not loaded")
		return nil, false
	}
	return ds, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
