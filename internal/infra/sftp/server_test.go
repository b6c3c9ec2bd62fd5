package sftp

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gosftp "github.com/pkg/sftp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"alma-pac/internal/config"
	"alma-pac/internal/resilience/retry"
)

// memServer is an in-process SFTP server backed by pkg/sftp's in-memory
// handlers. Every dial gets a fresh session over net.Pipe; the file tree is
// shared between sessions.
type memServer struct {
	handlers gosftp.Handlers
	dials    atomic.Int32
}

func newMemServer() *memServer {
	return &memServer{handlers: gosftp.InMemHandler()}
}

func (s *memServer) dial(ctx context.Context) (*gosftp.Client, io.Closer, error) {
	s.dials.Add(1)
	clientConn, serverConn := net.Pipe()
	server := gosftp.NewRequestServer(serverConn, s.handlers)
	go func() { _ = server.Serve() }()

	client, err := gosftp.NewClientPipe(clientConn, clientConn)
	if err != nil {
		_ = server.Close()
		return nil, nil, err
	}
	return client, server, nil
}

func (s *memServer) put(t *testing.T, name string, data []byte) {
	t.Helper()
	client, closer, err := s.dial(context.Background())
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()
	defer func() { _ = client.Close() }()

	f, err := client.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	require.NoError(t, err)
	if len(data) > 0 {
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())
}

func (s *memServer) get(t *testing.T, name string) []byte {
	t.Helper()
	client, closer, err := s.dial(context.Background())
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()
	defer func() { _ = client.Close() }()

	f, err := client.Open(name)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}

func testSFTPConfig() config.SFTPConfig {
	return config.SFTPConfig{
		Host:     "pac.test",
		Port:     22,
		User:     "alma",
		Password: "secret",
		Timeout:  5 * time.Second,
	}
}

func fastRetry(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1,
	}
}

// sshServer is a password-authenticated SSH server on loopback that serves
// the sftp subsystem from in-memory handlers.
type sshServer struct {
	addr     string
	hostKey  ssh.Signer
	handlers gosftp.Handlers
}

func startSSHServer(t *testing.T, mem *memServer, user, password string) *sshServer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	serverConfig := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == user && string(pass) == password {
				return nil, nil
			}
			return nil, errPasswordRejected
		},
	}
	serverConfig.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	s := &sshServer{addr: ln.Addr().String(), hostKey: signer, handlers: mem.handlers}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serveConn(conn, serverConfig)
		}
	}()
	return s
}

var errPasswordRejected = errors.New("password rejected")

func (s *sshServer) serveConn(conn net.Conn, cfg *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return
	}
	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			_ = newChannel.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		channel, requests, err := newChannel.Accept()
		if err != nil {
			return
		}
		go func(in <-chan *ssh.Request) {
			for req := range in {
				ok := req.Type == "subsystem" && subsystemName(req.Payload) == "sftp"
				_ = req.Reply(ok, nil)
			}
		}(requests)

		server := gosftp.NewRequestServer(channel, s.handlers)
		go func() {
			_ = server.Serve()
			_ = server.Close()
		}()
	}
}

func subsystemName(payload []byte) string {
	if len(payload) < 4 {
		return ""
	}
	n := binary.BigEndian.Uint32(payload[:4])
	if int(n) > len(payload)-4 {
		return ""
	}
	return string(payload[4 : 4+n])
}

func (s *sshServer) writeKnownHosts(t *testing.T, key ssh.PublicKey) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known_hosts")
	line := knownhosts.Line([]string{knownhosts.Normalize(s.addr)}, key)
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0o600))
	return path
}

func (s *sshServer) config(t *testing.T, password, knownHostsFile string) config.SFTPConfig {
	t.Helper()
	cfg := addrConfig(t, s.addr, 5*time.Second)
	cfg.Password = password
	cfg.KnownHostsFile = knownHostsFile
	return cfg
}

func addrConfig(t *testing.T, addr string, timeout time.Duration) config.SFTPConfig {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := net.LookupPort("tcp", portStr)
	require.NoError(t, err)
	return config.SFTPConfig{
		Host:    host,
		Port:    port,
		User:    "alma",
		Timeout: timeout,
	}
}

// startSilentListener accepts TCP connections and never says anything, like
// a PAC endpoint whose sshd has wedged.
func startSilentListener(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().String()
}

// stalledReads opens any file but blocks every read until release is closed.
type stalledReads struct {
	release <-chan struct{}
}

func (s stalledReads) Fileread(*gosftp.Request) (io.ReaderAt, error) {
	return stalledReaderAt(s), nil
}

type stalledReaderAt struct {
	release <-chan struct{}
}

func (s stalledReaderAt) ReadAt([]byte, int64) (int, error) {
	<-s.release
	return 0, io.EOF
}

// within runs fn and fails the test if it has not returned after limit.
func within(t *testing.T, limit time.Duration, fn func() error) error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- fn() }()
	select {
	case err := <-errCh:
		return err
	case <-time.After(limit):
		t.Fatalf("still blocked after %s", limit)
		return nil
	}
}
