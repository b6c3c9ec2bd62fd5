package notifier

import (
	"context"

	"alma-pac/internal/domain/entity"
)

// NoOpNotifier is used when a channel is disabled, so callers never need a nil check.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyReport does nothing and returns nil.
func (n *NoOpNotifier) NotifyReport(ctx context.Context, report *entity.InvoiceErrorReport) error {
	return nil
}
