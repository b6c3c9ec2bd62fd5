// Package notify provides the use case for delivering invoice error reports
// to every enabled chat channel (Slack, Discord) with per-channel circuit
// breakers, bounded concurrency and metrics.
package notify

import (
	"context"

	"alma-pac/internal/domain/entity"
)

// Channel represents a report delivery channel (Slack, Discord, ...).
// Each channel implementation handles its own rate limiting, retries, and
// error handling.
//
// Retry Policy Contract:
//   - Transient failures (5xx, network errors): Retry with backoff
//   - Rate limits (429): Sleep for retry_after duration, then retry
//   - Client errors (4xx except 429): No retry
//   - Context timeout: No retry
//
// All methods must be safe for concurrent use.
type Channel interface {
	// Name returns the channel identifier used in logs, metrics labels and
	// the /health/channels endpoint (lowercase, e.g. "slack").
	Name() string

	// IsEnabled returns true if this channel is enabled via configuration.
	// Disabled channels are skipped by Broadcast.
	IsEnabled() bool

	// Send delivers the report to this channel.
	//
	// Returns:
	//   - ErrChannelDisabled: If Send() called on disabled channel
	//   - ErrInvalidReport: If report is nil
	//   - Network/API errors: Wrapped with context
	Send(ctx context.Context, report *entity.InvoiceErrorReport) error
}
