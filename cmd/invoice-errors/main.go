// Command invoice-errors fetches the PAC invoice error batch file and prints
// a dated report to stdout. Logs go to stderr so the report can be mailed
// as-is by cron.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"alma-pac/internal/config"
	"alma-pac/internal/infra/sftp"
	"alma-pac/internal/observability/logging"
	"alma-pac/internal/usecase/invoiceerrors"
)

// fetcherFactory builds the transport for one run.
type fetcherFactory func(cfg config.SFTPConfig, logger *slog.Logger) (invoiceerrors.Fetcher, error)

func newSFTPFetcher(cfg config.SFTPConfig, logger *slog.Logger) (invoiceerrors.Fetcher, error) {
	return sftp.NewClient(cfg, sftp.WithLogger(logger))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr, newSFTPFetcher).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, logging.SanitizeError(err))
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer, newFetcher fetcherFactory) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "invoice-errors",
		Short: "Report PAC invoice errors for today",
		Long: `invoice-errors downloads the PAC invoice error batch file over SFTP and
prints either "PAC INVOICE ERRORS <YYYYMMDD>:" followed by the file, or
"No PAC invoice errors <YYYYMMDD>" when the file is absent or empty.

A failed download exits 1 without printing a report.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewJSONLogger(stderr)
			slog.SetDefault(logger)

			cfg, err := config.LoadPACConfig(configFile, logger, nil)
			if err != nil {
				return err
			}
			logger.Debug("configuration loaded", slog.Any("sftp", cfg.SFTP))

			fetcher, err := newFetcher(cfg.SFTP, logger)
			if err != nil {
				return err
			}

			svc := invoiceerrors.NewService(fetcher, cfg.ErrorFile.RemotePath, cfg.ErrorFile.LocalPath)
			report, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}
			return invoiceerrors.Write(stdout, report)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML credentials file (default $PAC_CONFIG_FILE)")
	return cmd
}
