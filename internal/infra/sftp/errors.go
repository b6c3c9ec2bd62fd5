package sftp

import "errors"

var (
	// ErrNotConfigured is returned when the PAC host or user is missing.
	ErrNotConfigured = errors.New("sftp: host and user must be configured")

	// ErrRemoteNotFound is returned when the requested remote file does not exist.
	ErrRemoteNotFound = errors.New("sftp: remote file not found")
)
