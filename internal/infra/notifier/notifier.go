// Package notifier delivers invoice error reports to chat webhooks.
// It defines the Notifier interface which allows different notification mechanisms
// (Slack, Discord) to be used interchangeably through dependency injection.
//
// The package includes implementations for Slack and Discord incoming webhooks
// and a no-op notifier for when notifications are disabled.
package notifier

import (
	"context"

	"alma-pac/internal/domain/entity"
)

// Notifier is an interface for sending invoice error report notifications.
// Implementations should handle rate limiting, retries, and error logging internally.
type Notifier interface {
	// NotifyReport posts the report to the destination.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - report: The report to deliver (must not be nil)
	//
	// Returns:
	//   - error: Non-nil if the notification failed after all retry attempts
	NotifyReport(ctx context.Context, report *entity.InvoiceErrorReport) error
}
