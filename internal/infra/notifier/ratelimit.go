package notifier

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket in front of a webhook.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a RateLimiter allowing burst requests at once,
// refilled at requestsPerSecond.
//
// Example:
//
//	limiter := NewRateLimiter(0.5, 3) // Discord: 30 req/min, burst of 3
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
