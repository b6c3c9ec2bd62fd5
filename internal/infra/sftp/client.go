// Package sftp talks to the PAC SFTP server: fetching the invoice error
// batch file, uploading invoice batches and listing the remote directory.
//
// Every operation opens its own session, runs inside the SFTP retry profile
// and is guarded by a circuit breaker shared by the Client.
package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gosftp "github.com/pkg/sftp"
	"go.opentelemetry.io/otel/attribute"

	"alma-pac/internal/config"
	"alma-pac/internal/observability/metrics"
	"alma-pac/internal/observability/tracing"
	"alma-pac/internal/resilience/circuitbreaker"
	"alma-pac/internal/resilience/retry"
)

// FileInfo describes one entry of a remote directory listing.
type FileInfo struct {
	Name    string
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
}

// Client performs SFTP operations against the PAC server.
type Client struct {
	dial    DialFunc
	retry   retry.Config
	breaker *circuitbreaker.CircuitBreaker
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithDialer replaces the SSH dialer. Tests use it to plug in an in-process server.
func WithDialer(dial DialFunc) Option {
	return func(c *Client) { c.dial = dial }
}

// WithRetryConfig overrides the retry profile.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithBreaker overrides the circuit breaker.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client for the configured PAC server.
// It returns ErrNotConfigured if the host or user is empty.
func NewClient(cfg config.SFTPConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.User) == "" {
		return nil, ErrNotConfigured
	}

	c := &Client{
		dial:    SSHDialer(cfg),
		retry:   retry.SFTPConfig(),
		breaker: circuitbreaker.New(circuitbreaker.SFTPConfig()),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "sftp"), slog.String("host", cfg.Host))
	return c, nil
}

// Fetch downloads remotePath to localPath, replacing any existing file.
// The download goes to a temporary file in the same directory which is then
// renamed over localPath, so a failed transfer never leaves a partial file.
//
// A missing remote file yields ErrRemoteNotFound.
func (c *Client) Fetch(ctx context.Context, remotePath, localPath string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "sftp.fetch",
		attribute.String("sftp.remote_path", remotePath),
		attribute.String("sftp.local_path", localPath),
	)
	defer func() { tracing.EndSpan(span, err) }()

	var n int64
	err = c.do(ctx, "fetch", func(sc *gosftp.Client) error {
		var err error
		n, err = download(ctx, sc, remotePath, localPath)
		if err != nil {
			return err
		}
		c.logListing(ctx, sc, path.Dir(remotePath))
		return nil
	})
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.Int64("sftp.bytes", n))
	metrics.RecordSFTPBytes("fetch", n)
	c.logger.InfoContext(ctx, "fetched remote file",
		slog.String("remote_path", remotePath),
		slog.String("local_path", localPath),
		slog.Int64("bytes", n))
	return nil
}

// Upload copies localPath to remotePath, truncating any existing remote file.
func (c *Client) Upload(ctx context.Context, localPath, remotePath string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "sftp.upload",
		attribute.String("sftp.local_path", localPath),
		attribute.String("sftp.remote_path", remotePath),
	)
	defer func() { tracing.EndSpan(span, err) }()

	var n int64
	err = c.do(ctx, "upload", func(sc *gosftp.Client) error {
		var err error
		n, err = upload(ctx, sc, localPath, remotePath)
		if err != nil {
			return err
		}
		c.logListing(ctx, sc, path.Dir(remotePath))
		return nil
	})
	if err != nil {
		return err
	}

	span.SetAttributes(attribute.Int64("sftp.bytes", n))
	metrics.RecordSFTPBytes("upload", n)
	c.logger.InfoContext(ctx, "uploaded file",
		slog.String("local_path", localPath),
		slog.String("remote_path", remotePath),
		slog.Int64("bytes", n))
	return nil
}

// List returns the entries of a remote directory sorted by name.
func (c *Client) List(ctx context.Context, dir string) (entries []FileInfo, err error) {
	ctx, span := tracing.StartSpan(ctx, "sftp.list", attribute.String("sftp.remote_path", dir))
	defer func() { tracing.EndSpan(span, err) }()

	err = c.do(ctx, "list", func(sc *gosftp.Client) error {
		var err error
		entries, err = readDir(sc, dir)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Rename moves a remote file. The target must not exist unless the server
// overwrites on rename.
func (c *Client) Rename(ctx context.Context, from, to string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "sftp.rename",
		attribute.String("sftp.from", from),
		attribute.String("sftp.to", to),
	)
	defer func() { tracing.EndSpan(span, err) }()

	return c.do(ctx, "rename", func(sc *gosftp.Client) error {
		if err := sc.Rename(from, to); err != nil {
			if isNotExist(err) {
				return fmt.Errorf("%w: %s", ErrRemoteNotFound, from)
			}
			return classify(fmt.Errorf("rename %s to %s: %w", from, to, err))
		}
		return nil
	})
}

// do runs fn in a fresh session under retry and the circuit breaker.
// ErrRemoteNotFound is an answer, not a fault, so it never trips the breaker.
func (c *Client) do(ctx context.Context, operation string, fn func(*gosftp.Client) error) error {
	start := time.Now()

	err := retry.WithBackoff(ctx, c.retry, func() error {
		var opErr error
		err := c.breaker.Run(func() error {
			opErr = c.session(ctx, fn)
			if errors.Is(opErr, ErrRemoteNotFound) {
				return nil
			}
			return opErr
		})
		if err != nil {
			return err
		}
		return opErr
	})

	status := metrics.StatusSuccess
	switch {
	case errors.Is(err, ErrRemoteNotFound):
		status = metrics.StatusNotFound
	case err != nil:
		status = metrics.StatusFailure
	}
	metrics.RecordSFTPOperation(operation, status, time.Since(start))
	return err
}

func (c *Client) session(ctx context.Context, fn func(*gosftp.Client) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sc, closer, err := c.dial(ctx)
	if err != nil {
		return err
	}
	teardown := func() {
		_ = sc.Close()
		if closer != nil {
			_ = closer.Close()
		}
	}
	// A read blocked on a stalled server only returns once the session is
	// torn down underneath it.
	stop := context.AfterFunc(ctx, teardown)
	defer func() {
		stop()
		teardown()
	}()

	if err := fn(sc); err != nil {
		return withContextErr(ctx, err)
	}
	return nil
}

// logListing logs the remote directory after a transfer so operators can
// see what PAC currently holds. Failures are only logged.
func (c *Client) logListing(ctx context.Context, sc *gosftp.Client, dir string) {
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	entries, err := readDir(sc, dir)
	if err != nil {
		c.logger.DebugContext(ctx, "remote listing unavailable",
			slog.String("dir", dir),
			slog.Any("error", err))
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	c.logger.DebugContext(ctx, "remote listing",
		slog.String("dir", dir),
		slog.Any("entries", names))
}

func download(ctx context.Context, sc *gosftp.Client, remotePath, localPath string) (int64, error) {
	src, err := sc.Open(remotePath)
	if err != nil {
		if isNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrRemoteNotFound, remotePath)
		}
		return 0, classify(fmt.Errorf("open remote %s: %w", remotePath, err))
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(localPath), "."+filepath.Base(localPath)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, &contextReader{ctx: ctx, r: src})
	if err != nil {
		_ = tmp.Close()
		return n, classify(fmt.Errorf("copy %s: %w", remotePath, err))
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return n, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, localPath); err != nil {
		return n, fmt.Errorf("replace %s: %w", localPath, err)
	}
	committed = true
	return n, nil
}

func upload(ctx context.Context, sc *gosftp.Client, localPath, remotePath string) (int64, error) {
	src, err := os.Open(localPath) // #nosec G304 -- operator-supplied path
	if err != nil {
		return 0, fmt.Errorf("open local %s: %w", localPath, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := sc.OpenFile(remotePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return 0, classify(fmt.Errorf("create remote %s: %w", remotePath, err))
	}

	n, err := io.Copy(dst, &contextReader{ctx: ctx, r: src})
	if err != nil {
		_ = dst.Close()
		return n, classify(fmt.Errorf("copy to %s: %w", remotePath, err))
	}
	if err := dst.Close(); err != nil {
		return n, classify(fmt.Errorf("close remote %s: %w", remotePath, err))
	}
	return n, nil
}

func readDir(sc *gosftp.Client, dir string) ([]FileInfo, error) {
	infos, err := sc.ReadDir(dir)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRemoteNotFound, dir)
		}
		return nil, classify(fmt.Errorf("read dir %s: %w", dir, err))
	}

	entries := make([]FileInfo, 0, len(infos))
	for _, fi := range infos {
		entries = append(entries, FileInfo{
			Name:    fi.Name(),
			Size:    fi.Size(),
			Mode:    fi.Mode(),
			ModTime: fi.ModTime(),
			IsDir:   fi.IsDir(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func isNotExist(err error) bool {
	if errors.Is(err, os.ErrNotExist) {
		return true
	}
	var status *gosftp.StatusError
	return errors.As(err, &status) && status.FxCode() == gosftp.ErrSSHFxNoSuchFile
}

// classify marks lost-connection failures as transient.
func classify(err error) error {
	var status *gosftp.StatusError
	if errors.As(err, &status) {
		switch status.FxCode() {
		case gosftp.ErrSSHFxConnectionLost, gosftp.ErrSSHFxNoConnection:
			return retry.Transient(err)
		}
	}
	if errors.Is(err, gosftp.ErrSSHFxConnectionLost) || errors.Is(err, io.EOF) {
		return retry.Transient(err)
	}
	return err
}

// contextReader stops a copy between reads once ctx is done. Reads already
// in flight are interrupted by the session teardown.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
