// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Run ID propagation for scheduled and manual job runs
//   - Context-aware logging
//   - Configurable log levels
//   - Credential masking for error messages
//
// Example usage:
//
//	import "alma-pac/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewJSONLogger(os.Stderr)
//	    logger.Info("fetching PAC error file", slog.String("remote", "BATCH-AP-LIBRY-ERR"))
//	}
//
//	func runJob(ctx context.Context) {
//	    logger := logging.WithRunID(ctx, slog.Default())
//	    logger.Error("fetch failed", slog.String("error", logging.SanitizeError(err)))
//	}
package logging
