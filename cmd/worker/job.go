package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"alma-pac/internal/domain/entity"
	workerPkg "alma-pac/internal/infra/worker"
	"alma-pac/internal/observability/logging"
	"alma-pac/internal/usecase/notify"
)

// reportRunner produces one invoice error report.
type reportRunner interface {
	Run(ctx context.Context) (*entity.InvoiceErrorReport, error)
}

// invoiceErrorJob is the scheduled unit of work: build the report, log it,
// and deliver it to the enabled notification channels.
type invoiceErrorJob struct {
	logger   *slog.Logger
	runner   reportRunner
	notifier notify.Service
	timeout  time.Duration
	metrics  *workerPkg.WorkerMetrics
	health   *workerPkg.HealthServer
}

// Run implements cron.Job.
func (j *invoiceErrorJob) Run() {
	_ = j.run(context.Background())
}

func (j *invoiceErrorJob) run(parent context.Context) error {
	startTime := time.Now()
	ctx := logging.ContextWithRunID(parent, uuid.New().String())
	logger := logging.WithRunID(ctx, j.logger)

	j.metrics.RecordJobRun(workerPkg.JobStatusStarted)
	logger.Info("invoice error check started")

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	report, err := j.runner.Run(ctx)
	if err != nil {
		// 機密情報をマスクしてログ出力
		logger.Error("invoice error check failed", slog.String("error", logging.SanitizeError(err)))
		j.metrics.RecordJobRun(workerPkg.JobStatusFailure)
		j.metrics.RecordJobDuration(time.Since(startTime).Seconds())
		j.health.RecordRun(time.Now(), err, false)
		return err
	}

	logger.Info("invoice error report",
		slog.String("date", report.DateStamp()),
		slog.Bool("has_errors", report.HasErrors),
		slog.String("report", report.String()))

	// delivery problems are logged but do not fail the run; the report is
	// already in the log
	if err := j.notifier.Broadcast(ctx, report); err != nil {
		logger.Warn("invoice error report delivery incomplete",
			slog.String("error", logging.SanitizeError(err)))
	}

	j.metrics.RecordJobRun(workerPkg.JobStatusSuccess)
	j.metrics.RecordJobDuration(time.Since(startTime).Seconds())
	j.metrics.RecordReport(report.HasErrors)
	j.metrics.RecordLastSuccess()
	j.health.RecordRun(time.Now(), nil, report.HasErrors)

	logger.Info("invoice error check completed",
		slog.Duration("duration", time.Since(startTime)))
	return nil
}

// cronLogger routes robfig/cron's internal logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{slog.String("error", err.Error())}, keysAndValues...)...)
}
