package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"alma-pac/internal/observability/logging"
)

// Retry defaults shared by the webhook notifiers.
const (
	defaultMaxAttempts    = 2
	defaultRetryBaseDelay = 5 * time.Second
	defaultTimeout        = 30 * time.Second
	defaultRetryAfter     = 5 * time.Second
)

// RateLimitError represents a 429 rate limit error from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string // Optional custom message
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx client error from a webhook service.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx server error from a webhook service.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// isRetryableError checks if the error is worth retrying (5xx server errors, network errors).
// Client errors (4xx) are not retryable; rate limits are handled separately.
func isRetryableError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// webhook is the transport shared by the Slack and Discord notifiers.
type webhook struct {
	service     string // "Slack", "Discord"
	url         string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	maxAttempts int
	baseDelay   time.Duration
}

// post sends one JSON payload and maps the response status to an error type.
func (w *webhook) post(ctx context.Context, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("execute http request: %w", ctxErr)
		}
		// the URL carries the webhook token
		return fmt.Errorf("execute http request: %s", logging.SanitizeError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    w.service + " rate limit exceeded",
			RetryAfter: extractRetryAfter(resp, body),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API client error: %s", w.service, string(body)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API server error: %s", w.service, string(body)),
		}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// deliver waits for the rate limiter, then posts with retry.
//
// Retry strategy:
//   - 429: sleep for retry_after, then retry
//   - 5xx and network errors: linear backoff (baseDelay, 2*baseDelay, ...)
//   - 4xx: fail immediately
func (w *webhook) deliver(ctx context.Context, report string, payload any) error {
	logger := logging.WithRunID(ctx, slog.Default()).With(
		slog.String("channel", w.service),
		slog.String("report", report))

	if err := w.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.post(ctx, payload)
		if err == nil {
			logger.Info("notification sent", slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			logger.Warn("rate limit hit, backing off",
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))
			if attempt == w.maxAttempts {
				break
			}
			if err := sleepCtx(ctx, rateLimitErr.RetryAfter); err != nil {
				return fmt.Errorf("context canceled during rate limit backoff: %w", err)
			}
			continue
		}

		if !isRetryableError(err) {
			logger.Error("notification failed with non-retryable error",
				slog.String("error", logging.SanitizeError(err)),
				slog.Int("attempt", attempt))
			return err
		}

		if attempt < w.maxAttempts {
			delay := w.baseDelay * time.Duration(attempt)
			logger.Warn("webhook request failed, retrying",
				slog.String("error", logging.SanitizeError(err)),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
			if err := sleepCtx(ctx, delay); err != nil {
				return fmt.Errorf("context canceled during retry backoff: %w", err)
			}
		}
	}

	logger.Error("notification failed after all retries",
		slog.String("error", logging.SanitizeError(lastErr)),
		slog.Int("max_attempts", w.maxAttempts))
	return fmt.Errorf("%s notification failed after %d attempts: %w", w.service, w.maxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// webhookErrorResponse covers the retry_after field both Slack and Discord
// may put in a 429 body.
type webhookErrorResponse struct {
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"` // In seconds
}

// extractRetryAfter reads retry_after from the JSON body, then the
// Retry-After header, defaulting to 5s.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var errResp webhookErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.RetryAfter > 0 {
		return time.Duration(errResp.RetryAfter * float64(time.Second))
	}

	if retryAfterHeader := resp.Header.Get("Retry-After"); retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return defaultRetryAfter
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
