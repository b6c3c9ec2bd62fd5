package worker

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *WorkerMetrics {
	t.Helper()
	return NewWorkerMetrics(prometheus.NewRegistry())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0 7 * * 1-5", cfg.CronSchedule)
	assert.Equal(t, "America/Los_Angeles", cfg.Timezone)
	assert.Equal(t, 2, cfg.NotifyMaxConcurrent)
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout)
	assert.Equal(t, 9091, cfg.HealthPort)
	assert.False(t, cfg.RunOnStart)
	assert.NoError(t, cfg.Validate())
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *WorkerConfig)
		wantErr string
	}{
		{name: "bad cron", mutate: func(c *WorkerConfig) { c.CronSchedule = "every morning" }, wantErr: "cron schedule"},
		{name: "bad timezone", mutate: func(c *WorkerConfig) { c.Timezone = "Mars/Olympus" }, wantErr: "timezone"},
		{name: "zero concurrency", mutate: func(c *WorkerConfig) { c.NotifyMaxConcurrent = 0 }, wantErr: "notify max concurrent"},
		{name: "tiny timeout", mutate: func(c *WorkerConfig) { c.JobTimeout = time.Second }, wantErr: "job timeout"},
		{name: "privileged port", mutate: func(c *WorkerConfig) { c.HealthPort = 80 }, wantErr: "health port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CronSchedule = "bad"
	cfg.HealthPort = 1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron schedule")
	assert.Contains(t, err.Error(), "health port")
}

func TestWorkerConfig_Location(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "UTC"
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	metrics := newTestMetrics(t)

	cfg := LoadConfigFromEnv(discardLogger(), metrics)

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))
}

func TestLoadConfigFromEnv_ValidOverrides(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "30 6 * * *")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("NOTIFY_MAX_CONCURRENT", "1")
	t.Setenv("JOB_TIMEOUT", "90s")
	t.Setenv("WORKER_HEALTH_PORT", "19191")
	t.Setenv("RUN_ON_START", "true")

	cfg := LoadConfigFromEnv(discardLogger(), newTestMetrics(t))

	assert.Equal(t, WorkerConfig{
		CronSchedule:        "30 6 * * *",
		Timezone:            "UTC",
		NotifyMaxConcurrent: 1,
		JobTimeout:          90 * time.Second,
		HealthPort:          19191,
		RunOnStart:          true,
	}, *cfg)
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "not a cron")
	t.Setenv("WORKER_TIMEZONE", "Nowhere/Land")
	t.Setenv("NOTIFY_MAX_CONCURRENT", "500")
	t.Setenv("JOB_TIMEOUT", "forever")
	t.Setenv("WORKER_HEALTH_PORT", "22")
	t.Setenv("RUN_ON_START", "maybe")
	metrics := newTestMetrics(t)

	cfg := LoadConfigFromEnv(discardLogger(), metrics)

	assert.Equal(t, DefaultConfig(), *cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))
	for _, field := range []string{"cron_schedule", "timezone", "notify_max_concurrent", "job_timeout", "health_port", "run_on_start"} {
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues(field)), field)
	}
}
