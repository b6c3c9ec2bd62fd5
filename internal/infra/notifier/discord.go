package notifier

import (
	"context"
	"net/http"
	"time"

	"alma-pac/internal/domain/entity"
	"alma-pac/internal/utils/text"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	// Enabled indicates whether Discord notifications are enabled
	Enabled bool

	// WebhookURL is the Discord webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Discord API calls
	Timeout time.Duration

	// MaxAttempts and RetryBaseDelay tune the retry loop; zero means 2 and 5s.
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

// DiscordNotifier posts invoice error reports to a Discord webhook.
type DiscordNotifier struct {
	webhook *webhook
}

// NewDiscordNotifier creates a new DiscordNotifier.
// Discord allows 30 webhook requests per minute: 0.5 req/s, burst 3.
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		webhook: &webhook{
			service:     "Discord",
			url:         config.WebhookURL,
			httpClient:  &http.Client{Timeout: orDefault(config.Timeout, defaultTimeout)},
			rateLimiter: NewRateLimiter(0.5, 3),
			maxAttempts: orDefault(config.MaxAttempts, defaultMaxAttempts),
			baseDelay:   orDefault(config.RetryBaseDelay, defaultRetryBaseDelay),
		},
	}
}

// DiscordWebhookPayload represents the JSON payload sent to Discord webhook.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed represents a Discord embed message.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

// DiscordEmbedFooter represents the footer of a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	// Discord limits
	maxTitleLength          = 256
	maxDescriptionLength    = 4096
	discordTruncationSuffix = "\n…(truncated)"
	discordCodeFence        = "```"

	discordRedColor   = 15548997 // #ED4245
	discordGreenColor = 5763719  // #57F287
)

// buildEmbedPayload creates the Discord payload for a report: the banner as
// title, red with the error file in a code block, or green with no body.
func buildEmbedPayload(report *entity.InvoiceErrorReport) DiscordWebhookPayload {
	embed := DiscordEmbed{
		Title:     text.Truncate(report.Banner(), maxTitleLength, "…"),
		Color:     discordGreenColor,
		Footer:    DiscordEmbedFooter{Text: "PAC error file"},
		Timestamp: report.Date.Format(time.RFC3339),
	}

	if report.HasErrors {
		room := maxDescriptionLength - 2*len(discordCodeFence) - 2
		body := text.Truncate(string(report.Contents), room, discordTruncationSuffix)
		embed.Description = discordCodeFence + "\n" + body + "\n" + discordCodeFence
		embed.Color = discordRedColor
	}

	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

// NotifyReport posts the report to Discord.
func (d *DiscordNotifier) NotifyReport(ctx context.Context, report *entity.InvoiceErrorReport) error {
	return d.webhook.deliver(ctx, report.DateStamp(), buildEmbedPayload(report))
}
