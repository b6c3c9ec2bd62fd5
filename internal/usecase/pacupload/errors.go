// Package pacupload sends a dated PAC invoice batch file to the PAC SFTP
// server under the fixed name PAC polls for.
package pacupload

import "errors"

var (
	// ErrMissingFile indicates the local batch file does not exist.
	ErrMissingFile = errors.New("PAC invoice file does not exist")

	// ErrEmptyFile indicates the local batch file has no invoices in it.
	ErrEmptyFile = errors.New("PAC invoice file is empty")
)
