// Package invoiceerrors provides the invoice error notifier use case: fetch
// the PAC error batch file, decide whether it holds errors, and render a
// dated report.
package invoiceerrors

import "errors"

// Sentinel errors for invoice error operations.
var (
	// ErrFetch indicates that retrieving the error file from PAC failed.
	// No report is produced in that case; callers must not treat it as
	// "no errors".
	ErrFetch = errors.New("failed to fetch PAC error file")

	// ErrReadLocal indicates that the fetched file could not be inspected or read.
	ErrReadLocal = errors.New("failed to read local error file")
)
