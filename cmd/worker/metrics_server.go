package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alma-pac/internal/observability/tracing"
	pkgconfig "alma-pac/internal/pkg/config"
	"alma-pac/internal/usecase/notify"
)

const defaultMetricsPort = 9090

// ChannelHealthResponse represents the health status of all notification channels.
type ChannelHealthResponse struct {
	Healthy  bool                         `json:"healthy"`
	Channels []notify.ChannelHealthStatus `json:"channels"`
}

// startMetricsServer serves Prometheus metrics and channel health in the
// background until ctx is cancelled.
//
// Endpoints:
//   - GET /metrics: Prometheus metrics
//   - GET /health/channels: channel status with circuit breaker state
//
// Environment variables:
//   - METRICS_PORT: port to listen on (default: 9090)
func startMetricsServer(ctx context.Context, logger *slog.Logger, notifyService notify.Service) *http.Server {
	port := getMetricsPort(logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newMetricsMux(notifyService),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
		} else {
			logger.Info("metrics server stopped")
		}
	}()

	return server
}

func newMetricsMux(notifyService notify.Service) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /health/channels", tracing.Middleware(channelHealthHandler(notifyService)))
	return mux
}

// getMetricsPort reads METRICS_PORT, falling back to 9090 with a warning.
func getMetricsPort(logger *slog.Logger) int {
	result := pkgconfig.LoadEnvInt("METRICS_PORT", defaultMetricsPort, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1, 65535)
	})
	for _, warning := range result.Warnings {
		logger.Warn("Configuration fallback applied",
			slog.String("field", "MetricsPort"),
			slog.String("warning", warning))
	}
	return result.Value
}

// channelHealthHandler answers 200 when no enabled channel has its circuit
// breaker open, 503 otherwise.
func channelHealthHandler(notifyService notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := notifyService.GetChannelHealth()

		healthy := true
		for _, status := range statuses {
			if status.Enabled && status.CircuitBreakerOpen {
				healthy = false
			}
		}

		statusCode := http.StatusOK
		if !healthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(ChannelHealthResponse{
			Healthy:  healthy,
			Channels: statuses,
		})
	}
}
