package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ConfigMetrics tracks configuration loading for one component.
//
// Metrics (prefixed with the component name):
//   - {component}_config_load_timestamp
//   - {component}_config_validation_errors_total{field}
//   - {component}_config_fallbacks_total{field}
//   - {component}_config_fallback_active
type ConfigMetrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge
}

// NewConfigMetrics creates the metrics and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on /metrics; tests pass
// a fresh prometheus.NewRegistry() so repeated construction does not panic.
func NewConfigMetrics(reg prometheus.Registerer, componentName string) *ConfigMetrics {
	m := &ConfigMetrics{
		LoadTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		}),
		ValidationErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_validation_errors_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration validation errors", componentName),
		}, []string{"field"}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration fallback operations", componentName),
		}, []string{"field"}),
		FallbackActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", componentName),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", componentName),
		}),
	}
	reg.MustRegister(m.LoadTimestamp, m.ValidationErrorsTotal, m.FallbacksTotal, m.FallbackActive)
	return m
}

// RecordLoadTimestamp sets the load timestamp to now.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordFallback counts a validation failure and the fallback applied for field.
func (m *ConfigMetrics) RecordFallback(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive sets the fallback gauge to 1 or 0.
func (m *ConfigMetrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackActive.Set(1)
		return
	}
	m.FallbackActive.Set(0)
}
