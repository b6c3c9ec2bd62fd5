package invoiceerrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"alma-pac/internal/domain/entity"
	"alma-pac/internal/observability/metrics"
)

// Fetcher retrieves a named remote file and writes it to a local path,
// replacing whatever was there.
type Fetcher interface {
	Fetch(ctx context.Context, remotePath, localPath string) error
}

// Service runs the notifier pipeline. It is stateless between runs apart
// from the local error file, which every run overwrites.
type Service struct {
	Fetcher    Fetcher
	RemotePath string
	LocalPath  string

	// Now returns the current time; the report date is taken from it.
	Now func() time.Time
}

// NewService creates a Service reading remotePath into localPath.
//
// Parameters:
//   - fetcher: transfer session to the PAC server
//   - remotePath: name of the error batch file on the server
//   - localPath: where the fetched file is written and then inspected
//
// Example:
//
//	client, _ := sftp.NewClient(cfg.SFTP)
//	svc := invoiceerrors.NewService(client, cfg.ErrorFile.RemotePath, cfg.ErrorFile.LocalPath)
//	report, err := svc.Run(ctx)
func NewService(fetcher Fetcher, remotePath, localPath string) *Service {
	return &Service{
		Fetcher:    fetcher,
		RemotePath: remotePath,
		LocalPath:  localPath,
		Now:        time.Now,
	}
}

// Run fetches the error file and builds the report.
//
// A fetch failure is returned wrapped in ErrFetch and the local file is not
// looked at, so a stale file from an earlier run can never be reported.
// After a successful fetch, an absent or zero-byte local file means there
// are no errors.
func (s *Service) Run(ctx context.Context) (*entity.InvoiceErrorReport, error) {
	logger := slog.Default()
	date := s.now()

	if err := s.Fetcher.Fetch(ctx, s.RemotePath, s.LocalPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, s.RemotePath, err)
	}

	contents, err := readIfNonEmpty(s.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadLocal, err)
	}

	report := entity.NewInvoiceErrorReport(date, contents)
	metrics.RecordInvoiceErrorReport(report.HasErrors, len(contents))
	logger.Info("invoice error report built",
		slog.String("date", report.DateStamp()),
		slog.Bool("has_errors", report.HasErrors),
		slog.Int("bytes", len(contents)))

	return report, nil
}

// Write prints the rendered report to w exactly as String returns it.
func Write(w io.Writer, r *entity.InvoiceErrorReport) error {
	if r == nil {
		return errors.New("nil report")
	}
	if _, err := io.WriteString(w, r.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// readIfNonEmpty returns nil for a missing or zero-byte file. Size, not
// mere existence, decides.
func readIfNonEmpty(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- configured path
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
