package notifier

import (
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	pkgconfig "alma-pac/internal/pkg/config"
)

// LoadSlackConfig loads Slack configuration from environment variables.
// Any invalid value disables the channel with a warning rather than failing startup.
//
// Environment variables:
//   - SLACK_ENABLED: "true" to enable Slack notifications (default: false)
//   - SLACK_WEBHOOK_URL: https://hooks.slack.com/services/... (required if enabled)
//   - SLACK_TIMEOUT: HTTP timeout (default: 30s)
func LoadSlackConfig(logger *slog.Logger) SlackConfig {
	webhookURL, ok := loadWebhookURL(logger, "SLACK", "hooks.slack.com", "/services/")
	if !ok {
		return SlackConfig{Enabled: false}
	}
	return SlackConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    loadTimeout(logger, "SLACK_TIMEOUT"),
	}
}

// LoadDiscordConfig loads Discord configuration from environment variables.
//
// Environment variables:
//   - DISCORD_ENABLED: "true" to enable Discord notifications (default: false)
//   - DISCORD_WEBHOOK_URL: https://discord.com/api/webhooks/... (required if enabled)
//   - DISCORD_TIMEOUT: HTTP timeout (default: 30s)
func LoadDiscordConfig(logger *slog.Logger) DiscordConfig {
	webhookURL, ok := loadWebhookURL(logger, "DISCORD", "discord.com", "/api/webhooks/")
	if !ok {
		return DiscordConfig{Enabled: false}
	}
	return DiscordConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    loadTimeout(logger, "DISCORD_TIMEOUT"),
	}
}

func loadWebhookURL(logger *slog.Logger, prefix, host, pathPrefix string) (string, bool) {
	if os.Getenv(prefix+"_ENABLED") != "true" {
		return "", false
	}

	webhookURL := os.Getenv(prefix + "_WEBHOOK_URL")
	if webhookURL == "" {
		logger.Warn("webhook URL is empty, disabling notifications", slog.String("channel", prefix))
		return "", false
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		logger.Warn("invalid webhook URL format, disabling notifications",
			slog.String("channel", prefix),
			slog.String("error", "unparseable URL"))
		return "", false
	}
	if u.Scheme != "https" {
		logger.Warn("webhook URL must use HTTPS, disabling notifications", slog.String("channel", prefix))
		return "", false
	}
	if u.Host != host {
		logger.Warn("invalid webhook host, disabling notifications",
			slog.String("channel", prefix),
			slog.String("host", u.Host))
		return "", false
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		logger.Warn("invalid webhook path, disabling notifications", slog.String("channel", prefix))
		return "", false
	}
	return webhookURL, true
}

func loadTimeout(logger *slog.Logger, key string) time.Duration {
	result := pkgconfig.LoadEnvDuration(key, defaultTimeout, pkgconfig.ValidatePositiveDuration)
	for _, w := range result.Warnings {
		logger.Warn("configuration fallback applied", slog.String("warning", w))
	}
	return result.Value
}
