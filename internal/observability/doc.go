// Package observability groups the logging, metrics and tracing support
// shared by the alma-pac commands.
//
// Subpackages:
//   - logging: slog constructors, run IDs, secret masking
//   - metrics: Prometheus counters for SFTP transfers, reports and payment files
//   - tracing: OpenTelemetry spans and HTTP middleware for the worker endpoints
package observability
