package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "alma-pac/internal/pkg/config"
)

// Default locations of the PAC invoice error batch file.
const (
	DefaultErrorRemotePath  = "BATCH-AP-LIBRY-ERR"
	DefaultErrorLocalPath   = "/tmp/BATCH-AP-LIBRY-ERR"
	DefaultUploadRemoteName = "LIBRY-APINTRFC"
)

// PACConfig holds everything needed to talk to the PAC SFTP server.
//
// Sources, later wins:
//  1. DefaultPACConfig
//  2. YAML file named by PAC_CONFIG_FILE (or the path passed to LoadPACConfig)
//  3. PAC_* environment variables
type PACConfig struct {
	SFTP      SFTPConfig      `yaml:"sftp"`
	ErrorFile ErrorFileConfig `yaml:"error_file"`
	Upload    UploadConfig    `yaml:"upload"`
}

// SFTPConfig is the PAC SFTP endpoint and credentials.
type SFTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// KnownHostsFile is an OpenSSH known_hosts file used to verify the server.
	// Default: $HOME/.ssh/known_hosts
	KnownHostsFile string `yaml:"known_hosts_file"`

	// InsecureIgnoreHostKey disables host key verification. Test servers only.
	InsecureIgnoreHostKey bool `yaml:"insecure_ignore_host_key"`

	// Timeout bounds the TCP dial, the SSH handshake and the sftp subsystem
	// start. Transfers are bounded by the caller's context instead.
	Timeout time.Duration `yaml:"timeout"`
}

// ErrorFileConfig locates the error batch file on both ends.
type ErrorFileConfig struct {
	RemotePath string `yaml:"remote_path"`
	LocalPath  string `yaml:"local_path"`
}

// UploadConfig names the file PAC expects invoice batches under.
type UploadConfig struct {
	RemoteName string `yaml:"remote_name"`
}

// LogValue keeps the password out of structured logs.
func (c SFTPConfig) LogValue() slog.Value {
	password := ""
	if c.Password != "" {
		password = "****"
	}
	return slog.GroupValue(
		slog.String("host", c.Host),
		slog.Int("port", c.Port),
		slog.String("user", c.User),
		slog.String("password", password),
		slog.String("known_hosts_file", c.KnownHostsFile),
		slog.Bool("insecure_ignore_host_key", c.InsecureIgnoreHostKey),
		slog.Duration("timeout", c.Timeout),
	)
}

// Addr returns host:port.
func (c SFTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DefaultPACConfig returns the defaults. Host and credentials have none.
func DefaultPACConfig() PACConfig {
	knownHosts := ""
	if home, err := os.UserHomeDir(); err == nil {
		knownHosts = filepath.Join(home, ".ssh", "known_hosts")
	}
	return PACConfig{
		SFTP: SFTPConfig{
			Port:           22,
			KnownHostsFile: knownHosts,
			Timeout:        30 * time.Second,
		},
		ErrorFile: ErrorFileConfig{
			RemotePath: DefaultErrorRemotePath,
			LocalPath:  DefaultErrorLocalPath,
		},
		Upload: UploadConfig{
			RemoteName: DefaultUploadRemoteName,
		},
	}
}

// LoadPACConfig builds the configuration from defaults, the optional YAML
// file at path, and PAC_* environment variables, then validates it.
//
// An empty path falls back to PAC_CONFIG_FILE; if that is empty too, no
// file is read. Invalid environment values fall back to the file/default
// value with a warning and, when metrics is non-nil, a fallback metric.
//
// Environment variables:
//   - PAC_SFTP_HOST, PAC_SFTP_PORT, PAC_SFTP_USER, PAC_SFTP_PASSWORD
//   - PAC_SFTP_KNOWN_HOSTS, PAC_SFTP_INSECURE_IGNORE_HOST_KEY, PAC_SFTP_TIMEOUT
//   - PAC_ERROR_REMOTE_PATH, PAC_ERROR_LOCAL_PATH
//   - PAC_UPLOAD_REMOTE_NAME
func LoadPACConfig(path string, logger *slog.Logger, metrics *pkgconfig.ConfigMetrics) (*PACConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := DefaultPACConfig()

	if path == "" {
		path = os.Getenv("PAC_CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	fallback := false
	warn := func(field string, warnings []string) {
		fallback = true
		if metrics != nil {
			metrics.RecordFallback(field)
		}
		for _, w := range warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}

	if r := pkgconfig.LoadEnvWithFallback("PAC_SFTP_HOST", cfg.SFTP.Host, pkgconfig.ValidateHost); r.FallbackApplied {
		warn("sftp_host", r.Warnings)
	} else {
		cfg.SFTP.Host = r.Value
	}

	if r := pkgconfig.LoadEnvInt("PAC_SFTP_PORT", cfg.SFTP.Port, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1, 65535)
	}); r.FallbackApplied {
		warn("sftp_port", r.Warnings)
	} else {
		cfg.SFTP.Port = r.Value
	}

	cfg.SFTP.User = pkgconfig.LoadEnvString("PAC_SFTP_USER", cfg.SFTP.User)
	cfg.SFTP.Password = pkgconfig.LoadEnvString("PAC_SFTP_PASSWORD", cfg.SFTP.Password)
	cfg.SFTP.KnownHostsFile = pkgconfig.LoadEnvString("PAC_SFTP_KNOWN_HOSTS", cfg.SFTP.KnownHostsFile)

	if r := pkgconfig.LoadEnvBool("PAC_SFTP_INSECURE_IGNORE_HOST_KEY", cfg.SFTP.InsecureIgnoreHostKey); r.FallbackApplied {
		warn("sftp_insecure_ignore_host_key", r.Warnings)
	} else {
		cfg.SFTP.InsecureIgnoreHostKey = r.Value
	}

	if r := pkgconfig.LoadEnvDuration("PAC_SFTP_TIMEOUT", cfg.SFTP.Timeout, func(d time.Duration) error {
		return pkgconfig.ValidateDuration(d, time.Second, 10*time.Minute)
	}); r.FallbackApplied {
		warn("sftp_timeout", r.Warnings)
	} else {
		cfg.SFTP.Timeout = r.Value
	}

	if r := pkgconfig.LoadEnvWithFallback("PAC_ERROR_REMOTE_PATH", cfg.ErrorFile.RemotePath, pkgconfig.ValidateRemotePath); r.FallbackApplied {
		warn("error_remote_path", r.Warnings)
	} else {
		cfg.ErrorFile.RemotePath = r.Value
	}

	cfg.ErrorFile.LocalPath = pkgconfig.LoadEnvString("PAC_ERROR_LOCAL_PATH", cfg.ErrorFile.LocalPath)

	if r := pkgconfig.LoadEnvWithFallback("PAC_UPLOAD_REMOTE_NAME", cfg.Upload.RemoteName, pkgconfig.ValidateRemotePath); r.FallbackApplied {
		warn("upload_remote_name", r.Warnings)
	} else {
		cfg.Upload.RemoteName = r.Value
	}

	if metrics != nil {
		metrics.SetFallbackActive(fallback)
		metrics.RecordLoadTimestamp()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid PAC configuration: %w", err)
	}
	return &cfg, nil
}

// loadFile overlays YAML values onto cfg. Unknown keys are rejected so that
// a typo in a credentials file does not silently drop a setting.
func (c *PACConfig) loadFile(path string) error {
	// #nosec G304 -- path comes from the operator (flag or PAC_CONFIG_FILE)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *PACConfig) Validate() error {
	var errs []error

	if err := pkgconfig.ValidateHost(c.SFTP.Host); err != nil {
		errs = append(errs, fmt.Errorf("sftp host: %w", err))
	}
	if err := pkgconfig.ValidateIntRange(c.SFTP.Port, 1, 65535); err != nil {
		errs = append(errs, fmt.Errorf("sftp port: %w", err))
	}
	if c.SFTP.User == "" {
		errs = append(errs, errors.New("sftp user: cannot be empty"))
	}
	if c.SFTP.Password == "" {
		errs = append(errs, errors.New("sftp password: cannot be empty"))
	}
	if !c.SFTP.InsecureIgnoreHostKey && c.SFTP.KnownHostsFile == "" {
		errs = append(errs, errors.New("sftp known_hosts_file: required unless insecure_ignore_host_key is set"))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.SFTP.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("sftp timeout: %w", err))
	}
	if err := pkgconfig.ValidateRemotePath(c.ErrorFile.RemotePath); err != nil {
		errs = append(errs, fmt.Errorf("error file remote path: %w", err))
	}
	if c.ErrorFile.LocalPath == "" {
		errs = append(errs, errors.New("error file local path: cannot be empty"))
	}
	if err := pkgconfig.ValidateRemotePath(c.Upload.RemoteName); err != nil {
		errs = append(errs, fmt.Errorf("upload remote name: %w", err))
	}

	return errors.Join(errs...)
}
