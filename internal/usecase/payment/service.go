package payment

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"alma-pac/internal/observability/metrics"
	"alma-pac/internal/observability/tracing"
)

// Convert reads a payment report from r and writes the confirmation XML to w.
//
// Nothing is written to w when the report cannot be read, so a bad row
// never produces a partial file.
//
// Returns:
//   - *Result: the converted payments and skipped row count
//   - error: header, row or write failure
func Convert(ctx context.Context, r io.Reader, w io.Writer) (result *Result, err error) {
	_, span := tracing.StartSpan(ctx, "payment.convert")
	defer func() { tracing.EndSpan(span, err) }()

	result, err = Read(r)
	if err != nil {
		return nil, err
	}
	if err := WriteXML(w, result.Payments); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("payment.written", len(result.Payments)),
		attribute.Int("payment.skipped", result.Skipped),
	)
	metrics.RecordPaymentRecords(len(result.Payments), result.Skipped)
	slog.Default().Info("payment confirmation file written",
		slog.Int("invoices", len(result.Payments)),
		slog.Int("skipped_rows", result.Skipped))

	return result, nil
}

// Summary is a one-line human description of a conversion.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d invoices written, %d empty rows skipped", len(r.Payments), r.Skipped)
}
