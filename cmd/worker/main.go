// Command worker runs the invoice error check on a cron schedule and
// delivers each report to Slack and Discord.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"alma-pac/internal/config"
	"alma-pac/internal/infra/notifier"
	"alma-pac/internal/infra/sftp"
	workerPkg "alma-pac/internal/infra/worker"
	"alma-pac/internal/observability/logging"
	pkgconfig "alma-pac/internal/pkg/config"
	"alma-pac/internal/usecase/invoiceerrors"
	"alma-pac/internal/usecase/notify"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerConfig := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("notify_max_concurrent", workerConfig.NotifyMaxConcurrent),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	pacConfig, err := config.LoadPACConfig("", logger, pkgconfig.NewConfigMetrics(prometheus.DefaultRegisterer, "pac"))
	if err != nil {
		logger.Error("failed to load PAC configuration", slog.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
	logger.Info("PAC configuration loaded", slog.Any("sftp", pacConfig.SFTP))

	client, err := sftp.NewClient(pacConfig.SFTP, sftp.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create SFTP client", slog.Any("error", err))
		os.Exit(1)
	}

	loc := workerConfig.Location()
	svc := invoiceerrors.NewService(client, pacConfig.ErrorFile.RemotePath, pacConfig.ErrorFile.LocalPath)
	svc.Now = func() time.Time { return time.Now().In(loc) }

	notifyService := setupNotifyService(logger, workerConfig.NotifyMaxConcurrent)

	// Start metrics HTTP server
	startMetricsServer(ctx, logger, notifyService)

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	job := &invoiceErrorJob{
		logger:   logger,
		runner:   svc,
		notifier: notifyService,
		timeout:  workerConfig.JobTimeout,
		metrics:  workerMetrics,
		health:   healthServer,
	}

	if err := runScheduler(ctx, logger, job, workerConfig, loc, healthServer); err != nil {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// setupNotifyService builds the Slack and Discord channels from the
// environment. Disabled channels are still registered so /health/channels
// lists them.
func setupNotifyService(logger *slog.Logger, maxConcurrent int) notify.Service {
	slackConfig := notifier.LoadSlackConfig(logger)
	discordConfig := notifier.LoadDiscordConfig(logger)

	channels := []notify.Channel{
		notify.NewSlackChannel(slackConfig),
		notify.NewDiscordChannel(discordConfig),
	}

	logger.Info("notification service initialized",
		slog.Bool("slack_enabled", slackConfig.Enabled),
		slog.Bool("discord_enabled", discordConfig.Enabled),
		slog.Int("max_concurrent", maxConcurrent))

	return notify.NewService(channels, maxConcurrent)
}

// runScheduler starts cron and blocks until ctx is cancelled. A run still
// in progress when the next tick fires is not overlapped.
func runScheduler(ctx context.Context, logger *slog.Logger, job cron.Job, cfg *workerPkg.WorkerConfig, loc *time.Location, healthServer *workerPkg.HealthServer) error {
	cl := cronLogger{logger: logger}
	c := cron.New(cron.WithLocation(loc), cron.WithLogger(cl))
	wrapped := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(job)

	if _, err := c.AddJob(cfg.CronSchedule, wrapped); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", loc.String()))

	if cfg.RunOnStart {
		logger.Info("running invoice error check on start")
		go wrapped.Run()
	}

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("worker shutting down, waiting for running job")
	<-c.Stop().Done()
	logger.Info("worker stopped")
	return nil
}
