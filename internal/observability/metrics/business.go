package metrics

import (
	"time"
)

// Status labels for SFTP operations.
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusNotFound = "not_found"
)

// RecordSFTPOperation records the outcome and duration of one SFTP operation.
func RecordSFTPOperation(operation, status string, duration time.Duration) {
	SFTPOperationsTotal.WithLabelValues(operation, status).Inc()
	SFTPOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSFTPBytes adds n transferred bytes for the operation.
func RecordSFTPBytes(operation string, n int64) {
	if n <= 0 {
		return
	}
	SFTPBytesTransferred.WithLabelValues(operation).Add(float64(n))
}

// RecordInvoiceErrorReport records a built report.
// size is only observed when the report carries errors.
func RecordInvoiceErrorReport(hasErrors bool, size int) {
	if !hasErrors {
		InvoiceErrorReportsTotal.WithLabelValues("clean").Inc()
		return
	}
	InvoiceErrorReportsTotal.WithLabelValues("errors").Inc()
	InvoiceErrorFileSize.Observe(float64(size))
}

// RecordPaymentRecords records written and skipped payment CSV rows.
func RecordPaymentRecords(written, skipped int) {
	PaymentRecordsTotal.WithLabelValues("written").Add(float64(written))
	PaymentRecordsTotal.WithLabelValues("skipped").Add(float64(skipped))
}
