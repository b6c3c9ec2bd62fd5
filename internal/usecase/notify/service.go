package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"alma-pac/internal/domain/entity"
	"alma-pac/internal/observability/logging"
	"alma-pac/internal/observability/tracing"
)

// Circuit breaker and timeout defaults
const (
	circuitBreakerThreshold = 5                // Number of consecutive failures before opening
	circuitBreakerTimeout   = 5 * time.Minute  // Duration to keep circuit breaker open
	notificationTimeout     = 30 * time.Second // Timeout for one channel delivery including retries
)

// Service delivers reports to all enabled channels.
type Service interface {
	// Broadcast sends the report to every enabled channel concurrently and
	// waits for all of them.
	//
	// Returns:
	//   - nil: every enabled channel accepted the report (or none is enabled)
	//   - error: errors.Join of each failed channel's error, prefixed by channel name
	Broadcast(ctx context.Context, report *entity.InvoiceErrorReport) error

	// GetChannelHealth returns the health status of all channels, for the
	// /health/channels endpoint.
	GetChannelHealth() []ChannelHealthStatus
}

// ChannelHealthStatus represents the health status of a notification channel.
type ChannelHealthStatus struct {
	Name               string     `json:"name"`
	Enabled            bool       `json:"enabled"`
	CircuitBreakerOpen bool       `json:"circuit_breaker_open"`
	DisabledUntil      *time.Time `json:"disabled_until,omitempty"`
}

// service is the concrete implementation of Service interface.
type service struct {
	channels      []Channel
	maxConcurrent int
	channelHealth map[string]*channelHealth
	now           func() time.Time
}

// channelHealth tracks circuit breaker state for a channel
type channelHealth struct {
	consecutiveFailures int
	disabledUntil       time.Time
	mu                  sync.Mutex
}

// NewService creates a new notification service with the given channels.
//
// Parameters:
//   - channels: notification channels (Slack, Discord)
//   - maxConcurrent: maximum deliveries in flight at once (values < 1 mean 1)
//
// Returns:
//   - Service: Configured notification service
func NewService(channels []Channel, maxConcurrent int) Service {
	return newService(channels, maxConcurrent, time.Now)
}

func newService(channels []Channel, maxConcurrent int, now func() time.Time) *service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	svc := &service{
		channels:      channels,
		maxConcurrent: maxConcurrent,
		channelHealth: make(map[string]*channelHealth, len(channels)),
		now:           now,
	}
	for _, ch := range channels {
		svc.channelHealth[ch.Name()] = &channelHealth{}
	}
	return svc
}

// Broadcast implements Service.Broadcast.
func (s *service) Broadcast(ctx context.Context, report *entity.InvoiceErrorReport) error {
	if report == nil {
		return ErrInvalidReport
	}

	enabled := make([]Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			enabled = append(enabled, ch)
		}
	}
	SetChannelsEnabled(len(enabled))

	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.ContextWithRunID(ctx, uuid.New().String())
	}
	logger := logging.WithRunID(ctx, slog.Default())

	if len(enabled) == 0 {
		logger.Debug("no notification channels enabled")
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "notify.broadcast",
		attribute.String("report.date", report.DateStamp()),
		attribute.Bool("report.has_errors", report.HasErrors),
		attribute.Int("notify.channels", len(enabled)),
	)
	defer span.End()

	logger.Info("dispatching invoice error report",
		slog.String("date", report.DateStamp()),
		slog.Bool("has_errors", report.HasErrors),
		slog.Int("enabled_channels", len(enabled)))

	errs := make([]error, len(enabled))
	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrent)
	for i, ch := range enabled {
		g.Go(func() error {
			errs[i] = s.notifyChannel(ctx, logger, ch, report)
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	tracing.EndSpan(span, err)
	return err
}

// notifyChannel delivers to one channel, honouring and updating its circuit breaker.
func (s *service) notifyChannel(ctx context.Context, logger *slog.Logger, channel Channel, report *entity.InvoiceErrorReport) (err error) {
	name := channel.Name()
	logger = logger.With(slog.String("channel", name))

	activeNotifications.Inc()
	defer activeNotifications.Dec()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in notification channel",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			RecordDropped(name, "panic")
			err = fmt.Errorf("%s: panic: %v", name, r)
		}
	}()

	health := s.channelHealth[name]
	health.mu.Lock()
	if s.now().Before(health.disabledUntil) {
		until := health.disabledUntil
		health.mu.Unlock()
		logger.Warn("channel temporarily disabled due to circuit breaker",
			slog.Time("disabled_until", until))
		RecordDropped(name, "circuit_open")
		return fmt.Errorf("%s: %w", name, ErrCircuitBreakerOpen)
	}
	health.mu.Unlock()

	sendCtx, cancel := context.WithTimeout(ctx, notificationTimeout)
	defer cancel()

	start := time.Now()
	RecordDispatch(name)
	err = channel.Send(sendCtx, report)
	duration := time.Since(start)

	health.mu.Lock()
	if err != nil {
		health.consecutiveFailures++
		if health.consecutiveFailures >= circuitBreakerThreshold {
			health.disabledUntil = s.now().Add(circuitBreakerTimeout)
			logger.Error("circuit breaker opened for channel",
				slog.Int("consecutive_failures", health.consecutiveFailures))
			RecordCircuitBreakerOpen(name)
		}
	} else {
		health.consecutiveFailures = 0
	}
	health.mu.Unlock()

	if err != nil {
		RecordFailure(name, duration)
		logger.Warn("channel notification failed",
			slog.Duration("send_duration", duration),
			slog.String("error", logging.SanitizeError(err)))
		return fmt.Errorf("%s: %w", name, err)
	}

	RecordSuccess(name, duration)
	logger.Info("channel notification sent",
		slog.Duration("send_duration", duration))
	return nil
}

// GetChannelHealth implements Service.GetChannelHealth.
func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	now := s.now()

	for _, ch := range s.channels {
		health := s.channelHealth[ch.Name()]

		health.mu.Lock()
		var disabledUntil *time.Time
		open := now.Before(health.disabledUntil)
		if open {
			until := health.disabledUntil
			disabledUntil = &until
		}
		health.mu.Unlock()

		statuses = append(statuses, ChannelHealthStatus{
			Name:               ch.Name(),
			Enabled:            ch.IsEnabled(),
			CircuitBreakerOpen: open,
			DisabledUntil:      disabledUntil,
		})
	}

	return statuses
}
