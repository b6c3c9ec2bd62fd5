// Package logging provides structured logging utilities using the standard library's log/slog package.
// It offers helper functions for creating loggers with consistent configuration and context propagation.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// NewLogger creates a new structured logger with JSON output on stdout.
// The log level can be controlled via the LOG_LEVEL environment variable.
// Supported levels: debug, info, warn, error
// Default level: info
func NewLogger() *slog.Logger {
	return NewJSONLogger(os.Stdout)
}

// NewJSONLogger creates a JSON logger writing to w.
// The CLIs pass os.Stderr so that stdout carries only the report.
func NewJSONLogger(w io.Writer) *slog.Logger {
	logLevel := levelFromEnv()

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
		// Add source code location for error and warn levels
		AddSource: logLevel <= slog.LevelWarn,
	})

	return slog.New(handler)
}

// NewTextLogger creates a new structured logger with human-readable text output.
// This is useful for local development and for interactive CLI runs.
func NewTextLogger(w io.Writer) *slog.Logger {
	logLevel := levelFromEnv()

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel <= slog.LevelWarn,
	})

	return slog.New(handler)
}

func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRunID returns a new logger that includes the run ID from the context.
// Every scheduled or manual job run gets its own ID.
func WithRunID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	runID := RunIDFromContext(ctx)
	if runID == "" {
		return logger
	}
	return logger.With("run_id", runID)
}

// ContextWithRunID stores a run ID in the context.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDContextKey, runID)
}

// RunIDFromContext returns the run ID stored in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDContextKey).(string); ok {
		return id
	}
	return ""
}

// WithFields returns a new logger with additional structured fields.
// Fields are provided as key-value pairs.
func WithFields(logger *slog.Logger, fields map[string]interface{}) *slog.Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

// FromContext retrieves the logger from the context, or returns the default logger if not found.
// This enables passing loggers through the application via context.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const (
	loggerContextKey contextKey = "logger"
	runIDContextKey  contextKey = "run_id"
)
