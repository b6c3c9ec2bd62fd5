package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HealthServer serves the worker's probes:
//   - /health: liveness, always 200 with the outcome of the last run
//   - /health/ready: readiness, 200 once the scheduler is running, 503 before
//
// Example usage:
//
//	healthServer := NewHealthServer(":9091", logger)
//	go func() {
//	    if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
//	        logger.Error("health server failed", slog.Any("error", err))
//	    }
//	}()
//	healthServer.SetReady(true)
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	isReady atomic.Bool
	server  *http.Server

	mu      sync.RWMutex
	lastRun *runStatus
}

// runStatus describes the most recent job run.
type runStatus struct {
	FinishedAt time.Time `json:"finished_at"`
	Success    bool      `json:"success"`
	HasErrors  bool      `json:"has_errors"`
}

// healthResponse is the JSON body of both endpoints.
type healthResponse struct {
	Status  string     `json:"status"`
	LastRun *runStatus `json:"last_run,omitempty"`
}

// NewHealthServer creates a health server that is not ready and not started.
func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	return &HealthServer{
		addr:   addr,
		logger: logger,
	}
}

// Handler returns the probe routes. Start serves the same handler.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleLiveness)
	mux.HandleFunc("GET /health/ready", h.handleReadiness)
	return mux
}

// Start serves until ctx is cancelled, then shuts down within 5 seconds.
//
// Returns:
//   - error: http.ErrServerClosed on graceful shutdown, other errors on failure
func (h *HealthServer) Start(ctx context.Context) error {
	h.server = &http.Server{
		Addr:              h.addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		errChan <- h.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.logger.Info("health server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed

	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

// SetReady sets the readiness state reported by /health/ready.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

// RecordRun stores the outcome of a finished job run for /health.
func (h *HealthServer) RecordRun(finishedAt time.Time, err error, hasErrors bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = &runStatus{
		FinishedAt: finishedAt,
		Success:    err == nil,
		HasErrors:  hasErrors,
	}
}

func (h *HealthServer) snapshot() *runStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.lastRun == nil {
		return nil
	}
	run := *h.lastRun
	return &run
}

// handleLiveness always answers 200; a failed last run is reported, not fatal.
func (h *HealthServer) handleLiveness(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", LastRun: h.snapshot()})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if !h.isReady.Load() {
		h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
		return
	}
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) writeJSON(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
