package pacupload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"time"

	"alma-pac/internal/infra/sftp"
)

// FilePrefix is the stem of every PAC invoice batch file.
const FilePrefix = "LIBRY-APINTRFC"

// FileName returns the archive name of the batch file for day t,
// e.g. "LIBRY-APINTRFC.20240115".
func FileName(t time.Time) string {
	return FilePrefix + "." + t.Format("20060102")
}

// Uploader is the subset of the SFTP client the upload needs.
type Uploader interface {
	Upload(ctx context.Context, localPath, remotePath string) error
	List(ctx context.Context, dir string) ([]sftp.FileInfo, error)
}

// Service uploads local batch files to RemoteName.
type Service struct {
	uploader   Uploader
	remoteName string
}

// NewService creates a Service. PAC requires every upload to use the same
// remote name, usually "LIBRY-APINTRFC"; local files keep their dated names.
func NewService(uploader Uploader, remoteName string) *Service {
	return &Service{uploader: uploader, remoteName: remoteName}
}

// Result is the outcome of a successful upload.
type Result struct {
	// Listing is the remote directory after the upload.
	Listing []sftp.FileInfo

	// ListErr is set when the upload went through but the directory could
	// not be listed. Listing is nil then, which says nothing about the
	// remote directory's contents.
	ListErr error
}

// Upload checks localPath and uploads it, then lists the remote directory
// so the operator can confirm the file landed. A listing failure is
// reported in Result.ListErr, not as an error.
func (s *Service) Upload(ctx context.Context, localPath string) (*Result, error) {
	info, err := os.Stat(localPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, localPath)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", localPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", localPath)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, localPath)
	}

	if err := s.uploader.Upload(ctx, localPath, s.remoteName); err != nil {
		return nil, fmt.Errorf("upload %s as %s: %w", localPath, s.remoteName, err)
	}
	slog.Default().Info("PAC invoice file uploaded",
		slog.String("local", localPath),
		slog.String("remote", s.remoteName),
		slog.Int64("bytes", info.Size()))

	listing, err := s.uploader.List(ctx, path.Dir(s.remoteName))
	if err != nil {
		slog.Default().Warn("failed to list remote directory after upload",
			slog.String("error", err.Error()))
		return &Result{ListErr: fmt.Errorf("list %s: %w", path.Dir(s.remoteName), err)}, nil
	}
	return &Result{Listing: listing}, nil
}
