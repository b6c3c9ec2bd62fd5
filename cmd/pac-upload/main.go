// Command pac-upload sends a dated PAC invoice batch file to the PAC SFTP
// server under the fixed name PAC picks up.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"alma-pac/internal/config"
	"alma-pac/internal/infra/sftp"
	"alma-pac/internal/observability/logging"
	"alma-pac/internal/usecase/pacupload"
)

type uploaderFactory func(cfg config.SFTPConfig, logger *slog.Logger) (pacupload.Uploader, error)

func newSFTPUploader(cfg config.SFTPConfig, logger *slog.Logger) (pacupload.Uploader, error) {
	return sftp.NewClient(cfg, sftp.WithLogger(logger))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr, newSFTPUploader).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, logging.SanitizeError(err))
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer, newUploader uploaderFactory) *cobra.Command {
	var (
		configFile string
		skipUpload bool
	)

	cmd := &cobra.Command{
		Use:   "pac-upload [file]",
		Short: "Upload a PAC invoice batch file",
		Long: `pac-upload uploads a PAC invoice batch file to the PAC SFTP server as
LIBRY-APINTRFC (or PAC_UPLOAD_REMOTE_NAME) and prints the remote listing.

Without an argument, today's LIBRY-APINTRFC.YYYYMMDD in the current
directory is uploaded.`,
		Example: `  pac-upload
  pac-upload LIBRY-APINTRFC.20240115
  pac-upload --skip-upload LIBRY-APINTRFC.20240115`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewJSONLogger(stderr)
			slog.SetDefault(logger)

			file := pacupload.FileName(time.Now())
			if len(args) == 1 {
				file = args[0]
			}

			if skipUpload {
				_, err := fmt.Fprintf(stdout, "%s NOT uploaded\n", file)
				return err
			}

			cfg, err := config.LoadPACConfig(configFile, logger, nil)
			if err != nil {
				return err
			}
			uploader, err := newUploader(cfg.SFTP, logger)
			if err != nil {
				return err
			}

			result, err := pacupload.NewService(uploader, cfg.Upload.RemoteName).Upload(cmd.Context(), file)
			if err != nil {
				return err
			}
			if result.ListErr != nil {
				_, err := fmt.Fprintf(stdout, "%s uploaded; remote listing unavailable: %v\n",
					file, logging.SanitizeError(result.ListErr))
				return err
			}
			return printListing(stdout, result.Listing)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML credentials file (default $PAC_CONFIG_FILE)")
	cmd.Flags().BoolVarP(&skipUpload, "skip-upload", "s", false, "Do not upload; only report the file name")
	return cmd
}

func printListing(w io.Writer, entries []sftp.FileInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Mode, e.Size, e.ModTime.Format(time.DateTime), e.Name)
	}
	return tw.Flush()
}
