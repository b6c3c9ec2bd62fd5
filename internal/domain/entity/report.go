// Package entity defines the core domain objects of the PAC integration:
// the invoice error report produced from the PAC error batch file and the
// payment confirmation records sent back to Alma.
package entity

import (
	"fmt"
	"time"
)

// ReportDateLayout formats the report date as eight digits (YYYYMMDD).
const ReportDateLayout = "20060102"

// InvoiceErrorReport is the result of one notifier run.
//
// Contents holds the error file verbatim and is never parsed. When
// HasErrors is false, Contents is always empty.
type InvoiceErrorReport struct {
	Date      time.Time
	HasErrors bool
	Contents  []byte
}

// NewInvoiceErrorReport builds a report for the given date. A nil or empty
// contents slice yields a "no errors" report.
func NewInvoiceErrorReport(date time.Time, contents []byte) *InvoiceErrorReport {
	if len(contents) == 0 {
		return &InvoiceErrorReport{Date: date}
	}
	return &InvoiceErrorReport{
		Date:      date,
		HasErrors: true,
		Contents:  contents,
	}
}

// DateStamp returns the report date in local calendar form, e.g. "20240115".
func (r *InvoiceErrorReport) DateStamp() string {
	return r.Date.Format(ReportDateLayout)
}

// Banner returns the first line of the report without a trailing newline.
func (r *InvoiceErrorReport) Banner() string {
	if r.HasErrors {
		return fmt.Sprintf("PAC INVOICE ERRORS %s:", r.DateStamp())
	}
	return fmt.Sprintf("No PAC invoice errors %s", r.DateStamp())
}

// String renders the full report.
//
// With errors: banner, newline, then the file contents exactly as fetched.
// Without errors: the banner alone, with no trailing newline.
func (r *InvoiceErrorReport) String() string {
	if !r.HasErrors {
		return r.Banner()
	}
	return r.Banner() + "\n" + string(r.Contents)
}
