package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dyluth/hackathon/pkg/eventbus"
)

// Pinger checks connectivity to a backing store. *eventbus.Client implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer provides HTTP health and progress endpoints for a running engine.
type HealthServer struct {
	engine   *Engine
	pinger   Pinger
	server   *http.Server
	listener net.Listener
}

// NewHealthServer creates a health server for e. pinger may be nil when
// the run has no external dependencies.
func NewHealthServer(e *Engine, pinger Pinger) *HealthServer {
	return &HealthServer{
		engine: e,
		pinger: pinger,
	}
}

// Start listens on addr and serves /healthz in the background.
// Use ":0" to pick a free port; Addr reports the bound address.
func (h *HealthServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	h.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.healthCheckHandler)

	h.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Health server error: %v\n", err)
		}
	}()

	return nil
}

// Addr returns the address the server is listening on, or "" before Start.
func (h *HealthServer) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Shutdown gracefully shuts down the health check server.
func (h *HealthServer) Shutdown(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

// healthCheckHandler handles GET /healthz requests.
// Returns 200 OK with run progress, or 503 Service Unavailable if Redis is unreachable.
func (h *HealthServer) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:         "healthy",
		RunID:          h.engine.RunID(),
		Events:         h.engine.bus.Stats(),
		ExpectedEvents: h.engine.plan.ExpectedEvents(),
	}

	code := http.StatusOK
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			response.Status = "unhealthy"
			response.Redis = "disconnected"
			response.Error = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			response.Redis = "connected"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// HealthResponse is the JSON response structure for health checks.
type HealthResponse struct {
	Status         string         `json:"status"`
	RunID          string         `json:"run_id"`
	Events         eventbus.Stats `json:"events"`
	ExpectedEvents int            `json:"expected_events"`
	Redis          string         `json:"redis,omitempty"`
	Error          string         `json:"error,omitempty"`
}
