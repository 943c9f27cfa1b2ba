package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dyluth/hackathon/pkg/eventbus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func healthWorkload() Workload {
	return Workload{Ideas: 4, IdeaProducers: 1, Packages: 4, PackageProducers: 1, Students: 2}
}

// TestHealthCheckEndpoint_MethodNotAllowed verifies non-GET requests are rejected.
func TestHealthCheckEndpoint_MethodNotAllowed(t *testing.T) {
	e, _ := newMemoryEngine(t, seedInputs(), healthWorkload())
	server := NewHealthServer(e, nil)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	server.healthCheckHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthCheckResponse(t *testing.T) {
	t.Run("healthy memory run reports progress", func(t *testing.T) {
		e, _ := newMemoryEngine(t, seedInputs(), healthWorkload(), WithRunID("health-run"))
		server := NewHealthServer(e, nil)

		_, err := e.Run(context.Background())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		server.healthCheckHandler(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "health-run", response.RunID)
		assert.Empty(t, response.Redis)
		assert.Equal(t, int64(response.ExpectedEvents), response.Events.Total())
	})

	t.Run("healthy when Redis available", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := eventbus.NewClient(&redis.Options{Addr: mr.Addr()})
		require.NoError(t, err)
		defer client.Close()

		e, _ := newMemoryEngine(t, seedInputs(), healthWorkload())
		server := NewHealthServer(e, client)

		w := httptest.NewRecorder()
		server.healthCheckHandler(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "connected", response.Redis)
		assert.Zero(t, response.Events.Total())
	})

	t.Run("unhealthy when Redis unavailable", func(t *testing.T) {
		e, _ := newMemoryEngine(t, seedInputs(), healthWorkload())
		server := NewHealthServer(e, failingPinger{})

		w := httptest.NewRecorder()
		server.healthCheckHandler(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "unhealthy", response.Status)
		assert.Equal(t, "disconnected", response.Redis)
		assert.Equal(t, "connection refused", response.Error)
	})
}

func TestHealthServer_StartAndShutdown(t *testing.T) {
	e, _ := newMemoryEngine(t, seedInputs(), healthWorkload())
	server := NewHealthServer(e, nil)
	assert.Empty(t, server.Addr())

	require.NoError(t, server.Start("127.0.0.1:0"))
	require.NotEmpty(t, server.Addr())

	resp, err := http.Get("http://" + server.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))
}
