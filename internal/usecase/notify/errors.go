package notify

import "errors"

// Sentinel errors for notify use case operations.
var (
	// ErrChannelDisabled indicates that Send() was called on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrInvalidReport indicates that the report passed to Send or Broadcast is nil.
	ErrInvalidReport = errors.New("invalid report")

	// ErrCircuitBreakerOpen indicates that the circuit breaker is open for this channel
	// and deliveries are being rejected to prevent continuous failures.
	// The circuit breaker will automatically close after the timeout period.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open for this channel")
)
