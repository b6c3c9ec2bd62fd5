package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for every span in alma-pac.
const TracerName = "alma-pac"

// GetTracer returns the tracer for creating spans.
// It is resolved from the global provider on every call so that a provider
// installed after package init (tests, main) is always honoured.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "sftp.fetch")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartSpan starts an internal span with the given attributes.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on the span (if any) and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
