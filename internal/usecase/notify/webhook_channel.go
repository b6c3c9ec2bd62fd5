package notify

import (
	"context"

	"alma-pac/internal/domain/entity"
	"alma-pac/internal/infra/notifier"
)

// WebhookChannel adapts an infrastructure notifier to the Channel interface.
type WebhookChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

// NewSlackChannel creates the "slack" channel.
// A disabled config gets a NoOpNotifier so the channel is always usable.
func NewSlackChannel(config notifier.SlackConfig) *WebhookChannel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	}
	return &WebhookChannel{name: "slack", notifier: n, enabled: config.Enabled}
}

// NewDiscordChannel creates the "discord" channel.
func NewDiscordChannel(config notifier.DiscordConfig) *WebhookChannel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	}
	return &WebhookChannel{name: "discord", notifier: n, enabled: config.Enabled}
}

// Name returns the channel identifier.
func (c *WebhookChannel) Name() string {
	return c.name
}

// IsEnabled returns whether the channel is enabled via configuration.
func (c *WebhookChannel) IsEnabled() bool {
	return c.enabled
}

// Send validates its input and delegates to the notifier, which applies
// rate limiting and retries.
func (c *WebhookChannel) Send(ctx context.Context, report *entity.InvoiceErrorReport) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if report == nil {
		return ErrInvalidReport
	}
	return c.notifier.NotifyReport(ctx, report)
}
