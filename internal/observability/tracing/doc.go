// Package tracing provides OpenTelemetry tracing helpers.
//
// Spans are created for each worker job run, each SFTP operation and each
// webhook delivery. No exporter is configured here; main installs a tracer
// provider when one is wanted and the global no-op provider is used otherwise.
//
// Example usage:
//
//	import "alma-pac/internal/observability/tracing"
//
//	func fetch(ctx context.Context) (err error) {
//	    ctx, span := tracing.StartSpan(ctx, "sftp.fetch",
//	        attribute.String("sftp.remote_path", remote))
//	    defer func() { tracing.EndSpan(span, err) }()
//	    // ...
//	}
package tracing
