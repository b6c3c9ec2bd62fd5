package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkerMetrics(reg)
	m.RecordJobRun(JobStatusSuccess)
	m.RecordJobDuration(1.5)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["worker_cron_job_runs_total"])
	assert.True(t, names["worker_cron_job_duration_seconds"])
	assert.True(t, names["worker_config_fallback_active"])
}

func TestNewWorkerMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWorkerMetrics(reg)
	assert.Panics(t, func() { NewWorkerMetrics(reg) })
}

func TestWorkerMetrics_Recorders(t *testing.T) {
	m := NewWorkerMetrics(prometheus.NewRegistry())

	m.RecordJobRun(JobStatusStarted)
	m.RecordJobRun(JobStatusFailure)
	m.RecordJobRun(JobStatusFailure)
	m.RecordReport(true)
	m.RecordReport(false)
	m.RecordLastSuccess()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues(JobStatusStarted)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues(JobStatusFailure)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CronJobReportsWithErrors))
	assert.Greater(t, testutil.ToFloat64(m.CronJobLastSuccessTimestamp), float64(0))
}
