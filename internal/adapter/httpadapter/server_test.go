package httpadapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/trip-analytics/internal/adapter/httpadapter"
	"github.com/couchcryptid/trip-analytics/internal/adapter/synthgeo"
	"github.com/couchcryptid/trip-analytics/internal/analysis"
	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/couchcryptid/trip-analytics/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	ds *domain.Dataset
}

func (m *mockBackend) CheckReadiness(_ context.Context) error {
	if m.ds == nil {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

func (m *mockBackend) Dataset() *domain.Dataset { return m.ds }

type failingRenderer struct{}

func (failingRenderer) Render(string, []domain.Trip) (any, error) {
	return nil, analysis.ErrPaletteOverflow
}

func ptr[T any](v T) *T { return &v }

func testDataset(n int) *domain.Dataset {
	trips := make([]domain.Trip, n)
	base := time.Date(2016, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := range trips {
		st := base.Add(time.Duration(i) * time.Hour)
		trips[i] = domain.Trip{
			StartTime:       st,
			EndTime:         st.Add(15 * time.Minute),
			StartLabel:      ptr("Cary"),
			StopLabel:       ptr("Durham"),
			Miles:           ptr(float64(i + 1)),
			Category:        "Business",
			HourOfDay:       st.Hour(),
			DurationMinutes: 15,
		}
	}
	return &domain.Dataset{LoadID: "load-1", Source: "trips.csv", RawCount: n + 1, DroppedCount: 1, Trips: trips}
}

func newTestServer(ds *domain.Dataset) (*httpadapter.Server, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	renderer := analysis.NewRenderer(synthgeo.New(0, metrics), analysis.DefaultOptions())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", &mockBackend{ds: ds}, renderer, metrics, logger), metrics
}

func get(t *testing.T, srv http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(nil)
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)
}

func TestReadyz(t *testing.T) {
	notReady, _ := newTestServer(nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, notReady, "/readyz").Code)

	ready, _ := newTestServer(testDataset(1))
	assert.Equal(t, http.StatusOK, get(t, ready, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAPI_NotLoadedReturns503(t *testing.T) {
	srv, _ := newTestServer(nil)

	for _, path := range []string{"/api/summary", "/api/trips", "/api/views/peak-hours"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, srv, path)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "dataset not loaded", body["error"])
		})
	}
}

func TestAPI_Trips(t *testing.T) {
	srv, _ := newTestServer(testDataset(8))

	tests := []struct {
		path string
		want int
	}{
		{"/api/trips", 5},
		{"/api/trips?limit=2", 2},
		{"/api/trips?limit=50", 8},
		{"/api/trips?limit=0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				LoadID string            `json:"load_id"`
				Total  int               `json:"total"`
				Trips  []json.RawMessage `json:"trips"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "load-1", body.LoadID)
			assert.Equal(t, 8, body.Total)
			assert.Len(t, body.Trips, tt.want)
		})
	}
}

func TestAPI_TripsBadLimit(t *testing.T) {
	srv, _ := newTestServer(testDataset(3))

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/trips?limit=abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/trips?limit=-1").Code)
}

func TestAPI_Summary(t *testing.T) {
	srv, _ := newTestServer(testDataset(3))
	rec := get(t, srv, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var s analysis.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 3, s.Trips)
	assert.Equal(t, 4, s.RawRows)
	assert.Equal(t, 1, s.DroppedRows)
	require.NotNil(t, s.BusiestHour)
	assert.Equal(t, 8, *s.BusiestHour)
}

func TestAPI_ViewList(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := get(t, srv, "/api/views")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, analysis.ViewNames, body["views"])
}

func TestAPI_EveryView(t *testing.T) {
	srv, metrics := newTestServer(testDataset(12))

	for _, name := range analysis.ViewNames {
		t.Run(name, func(t *testing.T) {
			rec := get(t, srv, "/api/views/"+name)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.True(t, json.Valid(rec.Body.Bytes()))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ViewRenders.WithLabelValues(name)))
		})
	}
}

func TestAPI_RoutesViewIsStable(t *testing.T) {
	srv, metrics := newTestServer(testDataset(4))

	first := get(t, srv, "/api/views/routes").Body.String()
	second := get(t, srv, "/api/views/routes").Body.String()

	assert.JSONEq(t, first, second)
	assert.Positive(t, testutil.ToFloat64(metrics.CoordinateCache.WithLabelValues("key", "hit")))
}

func TestAPI_ClustersView(t *testing.T) {
	srv, _ := newTestServer(testDataset(10))
	rec := get(t, srv, "/api/views/clusters")
	require.Equal(t, http.StatusOK, rec.Code)

	var m analysis.ClusterMap
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, 5, m.K)
	assert.Len(t, m.Points, 10)
	assert.Equal(t, domain.MapCenter, m.Center)
	assert.Equal(t, analysis.ClusterZoom, m.Zoom)
}

func TestAPI_EmptyDatasetViews(t *testing.T) {
	srv, _ := newTestServer(&domain.Dataset{LoadID: "empty", RawCount: 2, DroppedCount: 2})

	for _, name := range analysis.ViewNames {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, get(t, srv, "/api/views/"+name).Code)
		})
	}

	var report analysis.OutlierReport
	require.NoError(t, json.Unmarshal(get(t, srv, "/api/views/outliers").Body.Bytes(), &report))
	assert.Zero(t, report.Count)
}

func TestAPI_UnknownView(t *testing.T) {
	for _, ds := range []*domain.Dataset{nil, testDataset(2)} {
		srv, _ := newTestServer(ds)
		rec := get(t, srv, "/api/views/heatmap")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "heatmap")
	}
}

func TestAPI_RenderFailureReturns500(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httpadapter.NewServer(":0", &mockBackend{ds: testDataset(2)}, failingRenderer{}, metrics, logger)

	rec := get(t, srv, "/api/views/clusters")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ViewRenders.WithLabelValues("clusters")))
}
