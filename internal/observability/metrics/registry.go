// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SFTP metrics track transfers to and from the PAC server
var (
	// SFTPOperationsTotal counts SFTP operations by operation and status
	SFTPOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pac_sftp_operations_total",
			Help: "Total number of SFTP operations against the PAC server",
		},
		[]string{"operation", "status"}, // status: success, failure, not_found
	)

	// SFTPOperationDuration measures SFTP operation duration including dial
	SFTPOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pac_sftp_operation_duration_seconds",
			Help:    "SFTP operation duration in seconds, including session setup",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"operation"},
	)

	// SFTPBytesTransferred counts bytes moved by fetch and upload
	SFTPBytesTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pac_sftp_bytes_transferred_total",
			Help: "Total bytes transferred over SFTP",
		},
		[]string{"operation"},
	)
)

// Business metrics track the PAC integration itself
var (
	// InvoiceErrorReportsTotal counts built reports by outcome
	InvoiceErrorReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pac_invoice_error_reports_total",
			Help: "Total number of invoice error reports built",
		},
		[]string{"result"}, // result: errors, clean
	)

	// InvoiceErrorFileSize measures the size of non-empty error files
	InvoiceErrorFileSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pac_invoice_error_file_size_bytes",
			Help:    "Size of non-empty PAC invoice error files in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		},
	)

	// PaymentRecordsTotal counts payment rows processed by the payment file builder
	PaymentRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pac_payment_records_total",
			Help: "Total number of payment CSV rows processed",
		},
		[]string{"result"}, // result: written, skipped
	)
)
