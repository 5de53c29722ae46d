package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonhe/iotmon/internal/engine"
)

type fakeStates struct {
	states map[string]*engine.State
}

func (f *fakeStates) GetState(name string) (*engine.State, error) {
	st, ok := f.states[name]
	if !ok {
		return nil, errors.New("session not found")
	}
	return st, nil
}

func (f *fakeStates) ListSessions() []engine.SessionInfo {
	out := []engine.SessionInfo{}
	for name, st := range f.states {
		out = append(out, engine.SessionInfo{Name: name, PollCount: st.PollCount})
	}
	return out
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	_, err := engine.NewMetrics(reg)
	require.NoError(t, err)

	states := &fakeStates{states: map[string]*engine.State{
		"kitchen": {
			Name:            "kitchen",
			Seq:             3,
			PollCount:       3,
			LastSuccess:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			DistanceHistory: []engine.DistanceReading{{Current: 18.77}},
			EndpointStats: map[string]engine.EndpointStats{
				"distance": {Endpoint: "distance", Total: 1, SuccessCount: 1, SuccessRatePercent: 100},
			},
			LogView:   []engine.LogDisplayEntry{{Text: "/api/distance 200", Category: engine.CategoryDistance, Badge: engine.BadgeSuccess}},
			LastError: errors.New("hidden"),
		},
	}}
	return New(states, reg, quietLogger()), reg
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestViewKnownDashboard(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/views/kitchen")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Name            string `json:"name"`
			Seq             int    `json:"seq"`
			DistanceHistory []struct {
				Current float64 `json:"current_distance"`
			} `json:"distance_history"`
			Logs []struct {
				Badge    string `json:"badge"`
				Category string `json:"category"`
			} `json:"logs"`
		} `json:"data"`
		Meta struct {
			Status string `json:"status"`
			Stats  []struct {
				Endpoint string `json:"endpoint"`
				Rate     int    `json:"rate"`
			} `json:"stats"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "kitchen", body.Data.Name)
	assert.Equal(t, 3, body.Data.Seq)
	require.Len(t, body.Data.DistanceHistory, 1)
	assert.Equal(t, 18.77, body.Data.DistanceHistory[0].Current)
	require.Len(t, body.Data.Logs, 1)
	assert.Equal(t, "success", body.Data.Logs[0].Badge)
	assert.Equal(t, "distance", body.Data.Logs[0].Category)
	assert.Equal(t, engine.StatusLive, body.Meta.Status)
	require.Len(t, body.Meta.Stats, 1)
	assert.Equal(t, 100, body.Meta.Stats[0].Rate)
	assert.NotContains(t, rec.Body.String(), "hidden")
}

func TestViewUnknownDashboard(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/views/garage")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestListDashboards(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/dashboards")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"kitchen"`)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestMetricsRoute(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsRouteDisabled(t *testing.T) {
	s := New(&fakeStates{states: map[string]*engine.State{}}, nil, quietLogger())
	rec := get(t, s, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
