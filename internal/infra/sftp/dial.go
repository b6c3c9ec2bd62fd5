package sftp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	gosftp "github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"alma-pac/internal/config"
	"alma-pac/internal/resilience/retry"
)

// DialFunc opens one SFTP session. The returned closer tears down whatever
// sits underneath the SFTP client (the SSH connection in production).
type DialFunc func(ctx context.Context) (*gosftp.Client, io.Closer, error)

// SSHDialer returns a DialFunc that connects over SSH with password auth.
func SSHDialer(cfg config.SFTPConfig) DialFunc {
	return func(ctx context.Context) (*gosftp.Client, io.Closer, error) {
		hostKeyCallback, err := hostKeyCallback(cfg)
		if err != nil {
			return nil, nil, err
		}

		sshConfig := &ssh.ClientConfig{
			User: cfg.User,
			Auth: []ssh.AuthMethod{
				ssh.Password(cfg.Password),
				ssh.KeyboardInteractive(passwordChallenge(cfg.Password)),
			},
			HostKeyCallback: hostKeyCallback,
			Timeout:         cfg.Timeout,
		}

		addr := cfg.Addr()
		dialer := net.Dialer{Timeout: cfg.Timeout}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			// network errors are classified by retry.IsRetryable
			return nil, nil, fmt.Errorf("dial %s: %w", addr, err)
		}

		// The handshake and the sftp init exchange are bounded by cfg.Timeout
		// and by ctx; the deadline is cleared once the session is up.
		if cfg.Timeout > 0 {
			_ = conn.SetDeadline(time.Now().Add(cfg.Timeout))
		}
		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

		sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
		if err != nil {
			stop()
			_ = conn.Close()
			return nil, nil, fmt.Errorf("ssh handshake with %s: %w", addr, withContextErr(ctx, err))
		}
		sshClient := ssh.NewClient(sshConn, chans, reqs)

		client, err := gosftp.NewClient(sshClient)
		stopped := stop()
		if err != nil {
			_ = sshClient.Close()
			if ctx.Err() != nil {
				return nil, nil, fmt.Errorf("start sftp subsystem: %w", withContextErr(ctx, err))
			}
			return nil, nil, retry.Transient(fmt.Errorf("start sftp subsystem: %w", err))
		}
		if !stopped {
			// ctx fired after the subsystem started; conn is already closed.
			_ = client.Close()
			_ = sshClient.Close()
			return nil, nil, fmt.Errorf("start sftp subsystem: %w", ctx.Err())
		}
		_ = conn.SetDeadline(time.Time{})
		return client, sshClient, nil
	}
}

// withContextErr reports ctx's error alongside err when ctx ended the
// operation, so callers can match context.DeadlineExceeded.
func withContextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}

func hostKeyCallback(cfg config.SFTPConfig) (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil // #nosec G106 -- opt-in for test servers
	}
	cb, err := knownhosts.New(cfg.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts %s: %w", cfg.KnownHostsFile, err)
	}
	return cb, nil
}

// passwordChallenge answers every keyboard-interactive question with the
// password. Some PAC endpoints only offer keyboard-interactive.
func passwordChallenge(password string) ssh.KeyboardInteractiveChallenge {
	return func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = password
		}
		return answers, nil
	}
}
