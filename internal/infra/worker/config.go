package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alma-pac/internal/pkg/config"
)

// WorkerConfig holds the configuration for the scheduled invoice error worker.
// It controls the cron schedule, timezone, job timeout, notification fan-out
// and the health check port.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// Example usage:
//
//	metrics := NewWorkerMetrics(prometheus.DefaultRegisterer)
//	cfg := LoadConfigFromEnv(logger, metrics)
//	// cfg is always valid
type WorkerConfig struct {
	// CronSchedule is the cron expression for job scheduling.
	// Format: "minute hour day month weekday"
	// Default: "0 7 * * 1-5" (weekdays at 07:00)
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling and the report date.
	// Default: "America/Los_Angeles"
	Timezone string

	// NotifyMaxConcurrent is the maximum number of channels delivered to at once.
	// Range: 1-10
	// Default: 2
	NotifyMaxConcurrent int

	// JobTimeout bounds one run: SFTP fetch plus notification.
	// Range: 10s-1h
	// Default: 5 minutes
	JobTimeout time.Duration

	// HealthPort is the port number for the health check HTTP server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int

	// RunOnStart triggers one run immediately after startup, in addition to
	// the schedule.
	// Default: false
	RunOnStart bool
}

// DefaultConfig returns a WorkerConfig with production defaults.
//
// Returns:
//   - WorkerConfig: weekday 07:00 Pacific run, 5-minute timeout, port 9091
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:        "0 7 * * 1-5",
		Timezone:            "America/Los_Angeles",
		NotifyMaxConcurrent: 2,
		JobTimeout:          5 * time.Minute,
		HealthPort:          9091,
	}
}

// Validate checks every field and returns all problems joined together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.NotifyMaxConcurrent, 1, 10); err != nil {
		errs = append(errs, fmt.Errorf("notify max concurrent: %w", err))
	}
	if err := config.ValidateDuration(c.JobTimeout, 10*time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	return errors.Join(errs...)
}

// Location returns the configured timezone, or UTC if it cannot be loaded.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv loads worker configuration from environment variables.
//
// Fail-open: an invalid value is replaced by its default, logged as a
// warning and counted in the config fallback metrics. The returned config
// is never nil and always valid.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default: "0 7 * * 1-5")
//   - WORKER_TIMEZONE: IANA timezone name (default: "America/Los_Angeles")
//   - NOTIFY_MAX_CONCURRENT: integer 1-10 (default: 2)
//   - JOB_TIMEOUT: duration, e.g. "5m" (default: 5m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default: 9091)
//   - RUN_ON_START: boolean (default: false)
//
// Warning log format:
//
//	logger.Warn("Configuration fallback applied",
//	    slog.String("field", "CronSchedule"),
//	    slog.String("warning", "Invalid CRON_SCHEDULE='bad': ..."))
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	fallbackApplied := false

	fallback := func(field, metric string, warnings []string) {
		fallbackApplied = true
		metrics.RecordFallback(metric)
		for _, warning := range warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	cron := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = cron.Value
	if cron.FallbackApplied {
		fallback("CronSchedule", "cron_schedule", cron.Warnings)
	}

	tz := config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	if tz.FallbackApplied {
		fallback("Timezone", "timezone", tz.Warnings)
	}

	concurrent := config.LoadEnvInt("NOTIFY_MAX_CONCURRENT", cfg.NotifyMaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 10)
	})
	cfg.NotifyMaxConcurrent = concurrent.Value
	if concurrent.FallbackApplied {
		fallback("NotifyMaxConcurrent", "notify_max_concurrent", concurrent.Warnings)
	}

	timeout := config.LoadEnvDuration("JOB_TIMEOUT", cfg.JobTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 10*time.Second, time.Hour)
	})
	cfg.JobTimeout = timeout.Value
	if timeout.FallbackApplied {
		fallback("JobTimeout", "job_timeout", timeout.Warnings)
	}

	port := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	if port.FallbackApplied {
		fallback("HealthPort", "health_port", port.Warnings)
	}

	runOnStart := config.LoadEnvBool("RUN_ON_START", cfg.RunOnStart)
	cfg.RunOnStart = runOnStart.Value
	if runOnStart.FallbackApplied {
		fallback("RunOnStart", "run_on_start", runOnStart.Warnings)
	}

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg
}
