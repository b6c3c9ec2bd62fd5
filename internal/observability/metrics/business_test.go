package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogramSnapshot(t *testing.T, h interface{ Write(*dto.Metric) error }) (uint64, float64) {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, h.Write(m))
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}

func TestRecordSFTPOperation(t *testing.T) {
	before := testutil.ToFloat64(SFTPOperationsTotal.WithLabelValues("fetch", StatusSuccess))

	RecordSFTPOperation("fetch", StatusSuccess, 250*time.Millisecond)

	after := testutil.ToFloat64(SFTPOperationsTotal.WithLabelValues("fetch", StatusSuccess))
	assert.Equal(t, before+1, after)
}

func TestRecordSFTPBytes(t *testing.T) {
	before := testutil.ToFloat64(SFTPBytesTransferred.WithLabelValues("upload"))

	RecordSFTPBytes("upload", 2048)
	RecordSFTPBytes("upload", 0)
	RecordSFTPBytes("upload", -1)

	after := testutil.ToFloat64(SFTPBytesTransferred.WithLabelValues("upload"))
	assert.Equal(t, before+2048, after)
}

func TestRecordInvoiceErrorReport(t *testing.T) {
	clean := testutil.ToFloat64(InvoiceErrorReportsTotal.WithLabelValues("clean"))
	withErrors := testutil.ToFloat64(InvoiceErrorReportsTotal.WithLabelValues("errors"))
	count, sum := histogramSnapshot(t, InvoiceErrorFileSize)

	RecordInvoiceErrorReport(false, 0)
	RecordInvoiceErrorReport(true, 17)
	RecordInvoiceErrorReport(true, 300)

	assert.Equal(t, clean+1, testutil.ToFloat64(InvoiceErrorReportsTotal.WithLabelValues("clean")))
	assert.Equal(t, withErrors+2, testutil.ToFloat64(InvoiceErrorReportsTotal.WithLabelValues("errors")))

	// only non-empty files are sized
	newCount, newSum := histogramSnapshot(t, InvoiceErrorFileSize)
	assert.Equal(t, count+2, newCount)
	assert.Equal(t, sum+317, newSum)
}

func TestRecordPaymentRecords(t *testing.T) {
	written := testutil.ToFloat64(PaymentRecordsTotal.WithLabelValues("written"))
	skipped := testutil.ToFloat64(PaymentRecordsTotal.WithLabelValues("skipped"))

	RecordPaymentRecords(12, 3)

	assert.Equal(t, written+12, testutil.ToFloat64(PaymentRecordsTotal.WithLabelValues("written")))
	assert.Equal(t, skipped+3, testutil.ToFloat64(PaymentRecordsTotal.WithLabelValues("skipped")))
}
