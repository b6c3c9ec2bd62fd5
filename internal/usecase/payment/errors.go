// Package payment converts the campus payment report (CSV exported from
// Excel) into an Alma payment confirmation XML file.
package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn indicates the CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrNoHeader indicates the input had no header row at all.
	ErrNoHeader = errors.New("payment report has no header row")
)

// RowError reports a data row that could not be converted.
// Line is the 1-based line number in the CSV input.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
