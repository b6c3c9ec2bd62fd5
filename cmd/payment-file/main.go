// Command payment-file converts a campus payment report (CSV saved from
// Excel) into an Alma payment confirmation XML file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"alma-pac/internal/observability/logging"
	"alma-pac/internal/usecase/payment"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "payment-file <report.csv>",
		Short: "Convert a payment report to Alma payment confirmation XML",
		Long: `payment-file reads a payment report with the columns
  Vendor Code, Invoice Number, Invoice Date, Invoice Gross Amount,
  Transaction Amount, Check Number, Check Date
and writes Alma payment_confirmation_data XML, to stdout by default.
Rows without a vendor code are skipped.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewJSONLogger(stderr)
			slog.SetDefault(logger)

			in, err := os.Open(args[0]) // #nosec G304 -- operator-supplied path
			if err != nil {
				return fmt.Errorf("open payment report: %w", err)
			}
			defer func() { _ = in.Close() }()

			if output == "" {
				_, err := payment.Convert(cmd.Context(), in, stdout)
				return err
			}
			return convertToFile(cmd.Context(), in, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write XML to this file instead of stdout")
	return cmd
}

// convertToFile writes through a temp file so a failed conversion never
// leaves a truncated XML file behind.
func convertToFile(ctx context.Context, in io.Reader, path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".payment-*.xml")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = payment.Convert(ctx, in, tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { // #nosec G302 -- loaded into Alma by other users
		return fmt.Errorf("chmod output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
