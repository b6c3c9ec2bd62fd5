package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"alma-pac/internal/domain/entity"
	"alma-pac/internal/utils/text"
)

// SlackConfig contains configuration for Slack webhook notifications.
type SlackConfig struct {
	// Enabled indicates whether Slack notifications are enabled
	Enabled bool

	// WebhookURL is the Slack Incoming Webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Slack API calls
	Timeout time.Duration

	// MaxAttempts and RetryBaseDelay tune the retry loop; zero means 2 and 5s.
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

// SlackNotifier posts invoice error reports to Slack via Incoming Webhook.
type SlackNotifier struct {
	webhook *webhook
}

// NewSlackNotifier creates a new SlackNotifier.
// Slack allows one webhook message per second, so the limiter is 1 req/s, burst 1.
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		webhook: &webhook{
			service:     "Slack",
			url:         config.WebhookURL,
			httpClient:  &http.Client{Timeout: orDefault(config.Timeout, defaultTimeout)},
			rateLimiter: NewRateLimiter(1.0, 1),
			maxAttempts: orDefault(config.MaxAttempts, defaultMaxAttempts),
			baseDelay:   orDefault(config.RetryBaseDelay, defaultRetryBaseDelay),
		},
	}
}

// SlackWebhookPayload represents the JSON payload sent to Slack webhook using Block Kit.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`   // Fallback text (required)
	Blocks []SlackBlock `json:"blocks"` // Rich formatting blocks
}

// SlackBlock represents a Slack Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`               // "header", "section", "context"
	Text     *SlackTextObject  `json:"text,omitempty"`     // Text content (for header/section)
	Elements []SlackTextObject `json:"elements,omitempty"` // Elements (for context)
}

// SlackTextObject represents a text object in Slack Block Kit.
type SlackTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"` // Actual text content
}

const (
	// Slack Block Kit limits
	maxSlackHeaderLength  = 150
	maxSectionTextLength  = 3000
	slackTruncationSuffix = "\n…(truncated)"
	slackCodeFence        = "```"
)

// buildBlockKitPayload creates the Slack payload for a report.
//
// The payload includes:
//   - Text: the report banner (notification fallback)
//   - Header block: the banner
//   - Section block: the error file in a code block, only when there are errors
//   - Context block: the report date
func buildBlockKitPayload(report *entity.InvoiceErrorReport) SlackWebhookPayload {
	banner := report.Banner()

	blocks := []SlackBlock{
		{
			Type: "header",
			Text: &SlackTextObject{Type: "plain_text", Text: text.Truncate(banner, maxSlackHeaderLength, "…")},
		},
	}

	if report.HasErrors {
		// Reserve room for the fences so a truncated body stays inside the code block.
		room := maxSectionTextLength - 2*len(slackCodeFence) - 2
		body := text.Truncate(string(report.Contents), room, slackTruncationSuffix)
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackTextObject{
				Type: "mrkdwn",
				Text: slackCodeFence + "\n" + body + "\n" + slackCodeFence,
			},
		})
	}

	blocks = append(blocks, SlackBlock{
		Type: "context",
		Elements: []SlackTextObject{
			{Type: "mrkdwn", Text: fmt.Sprintf("PAC error file • %s", report.Date.Format("2006-01-02"))},
		},
	})

	return SlackWebhookPayload{Text: banner, Blocks: blocks}
}

// NotifyReport posts the report to Slack.
func (s *SlackNotifier) NotifyReport(ctx context.Context, report *entity.InvoiceErrorReport) error {
	return s.webhook.deliver(ctx, report.DateStamp(), buildBlockKitPayload(report))
}
