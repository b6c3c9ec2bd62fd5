package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for report delivery
var (
	// notificationDispatchedTotal tracks deliveries attempted per channel
	notificationDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatched_total",
			Help: "Total number of report deliveries dispatched",
		},
		[]string{"channel"},
	)

	// notificationSentTotal tracks delivery results per channel
	notificationSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sent_total",
			Help: "Total number of report deliveries by result",
		},
		[]string{"channel", "status"}, // status: success|failure
	)

	// notificationDuration tracks delivery duration including retries
	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_duration_seconds",
			Help:    "Report delivery duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"channel"},
	)

	// circuitBreakerOpenTotal tracks circuit breaker open events
	circuitBreakerOpenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_circuit_breaker_open_total",
			Help: "Total number of circuit breaker open events",
		},
		[]string{"channel"},
	)

	// notificationDroppedTotal tracks deliveries skipped without a send attempt
	notificationDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dropped_total",
			Help: "Total number of dropped report deliveries",
		},
		[]string{"channel", "reason"}, // reason: circuit_open|panic
	)

	// activeNotifications tracks deliveries in flight
	activeNotifications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_active_deliveries",
			Help: "Number of report deliveries in flight",
		},
	)

	// channelsEnabled tracks number of enabled channels
	channelsEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_channels_enabled",
			Help: "Number of enabled notification channels",
		},
	)
)

// RecordDispatch records a delivery attempt.
func RecordDispatch(channel string) {
	notificationDispatchedTotal.WithLabelValues(channel).Inc()
}

// RecordSuccess records a successful delivery and its duration.
func RecordSuccess(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "success").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordFailure records a failed delivery and the time spent before it failed.
func RecordFailure(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "failure").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordDropped records a delivery skipped for reason.
func RecordDropped(channel string, reason string) {
	notificationDroppedTotal.WithLabelValues(channel, reason).Inc()
}

// RecordCircuitBreakerOpen records a circuit breaker open event.
func RecordCircuitBreakerOpen(channel string) {
	circuitBreakerOpenTotal.WithLabelValues(channel).Inc()
}

// SetChannelsEnabled sets the number of enabled channels.
func SetChannelsEnabled(count int) {
	channelsEnabled.Set(float64(count))
}
