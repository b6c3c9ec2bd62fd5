package worker

import (
	"github.com/prometheus/client_golang/prometheus"

	"alma-pac/internal/pkg/config"
)

// Job run statuses.
const (
	JobStatusStarted = "started"
	JobStatusSuccess = "success"
	JobStatusFailure = "failure"
)

// WorkerMetrics provides Prometheus metrics for the worker.
// It embeds ConfigMetrics for configuration monitoring.
//
// Worker-specific metrics:
//   - worker_cron_job_runs_total{status}: runs by status (started/success/failure)
//   - worker_cron_job_duration_seconds: duration histogram of one run
//   - worker_cron_job_reports_with_errors_total: runs whose error file was non-empty
//   - worker_cron_job_last_success_timestamp: Unix time of the last successful run
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobRunsTotal            *prometheus.CounterVec
	CronJobDurationSeconds      prometheus.Histogram
	CronJobReportsWithErrors    prometheus.Counter
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates the worker metrics and registers them with reg.
//
// Example:
//
//	metrics := NewWorkerMetrics(prometheus.DefaultRegisterer)
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	m := &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics(reg, "worker"),

		CronJobRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by status (started/success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 300},
		}),

		CronJobReportsWithErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_reports_with_errors_total",
			Help: "Total number of runs that found PAC invoice errors",
		}),

		CronJobLastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run",
		}),
	}
	reg.MustRegister(
		m.CronJobRunsTotal,
		m.CronJobDurationSeconds,
		m.CronJobReportsWithErrors,
		m.CronJobLastSuccessTimestamp,
	)
	return m
}

// RecordJobRun increments the job run counter for status.
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one run's duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordReport counts the run's report when it carries errors.
func (m *WorkerMetrics) RecordReport(hasErrors bool) {
	if hasErrors {
		m.CronJobReportsWithErrors.Inc()
	}
}

// RecordLastSuccess records the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
