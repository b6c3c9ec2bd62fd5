// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the application metrics:
//   - SFTP operation metrics (count, duration, bytes)
//   - Business metrics (invoice error reports, payment records)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the worker's /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	n, err := download(ctx)
//	if err != nil {
//	    metrics.RecordSFTPOperation("fetch", metrics.StatusFailure, time.Since(start))
//	    return err
//	}
//	metrics.RecordSFTPOperation("fetch", metrics.StatusSuccess, time.Since(start))
//	metrics.RecordSFTPBytes("fetch", n)
package metrics
