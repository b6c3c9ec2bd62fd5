package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceErrorReport_String(t *testing.T) {
	date := time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name      string
		contents  []byte
		want      string
		hasErrors bool
	}{
		{
			name:      "nil contents",
			contents:  nil,
			want:      "No PAC invoice errors 20240115",
			hasErrors: false,
		},
		{
			name:      "zero-byte contents",
			contents:  []byte{},
			want:      "No PAC invoice errors 20240115",
			hasErrors: false,
		},
		{
			name:      "single error line",
			contents:  []byte("ERR001: bad ISBN\n"),
			want:      "PAC INVOICE ERRORS 20240115:\nERR001: bad ISBN\n",
			hasErrors: true,
		},
		{
			name:      "contents without trailing newline kept verbatim",
			contents:  []byte("ERR002: no VCK"),
			want:      "PAC INVOICE ERRORS 20240115:\nERR002: no VCK",
			hasErrors: true,
		},
		{
			name:      "whitespace only still counts as errors",
			contents:  []byte("\n"),
			want:      "PAC INVOICE ERRORS 20240115:\n\n",
			hasErrors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewInvoiceErrorReport(date, tt.contents)
			assert.Equal(t, tt.hasErrors, r.HasErrors)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestInvoiceErrorReport_Banner(t *testing.T) {
	date := time.Date(2025, 12, 3, 23, 59, 0, 0, time.Local)

	withErrors := NewInvoiceErrorReport(date, []byte("x"))
	assert.Equal(t, "PAC INVOICE ERRORS 20251203:", withErrors.Banner())
	assert.True(t, strings.HasPrefix(withErrors.String(), "PAC INVOICE ERRORS "))

	clean := NewInvoiceErrorReport(date, nil)
	assert.Equal(t, "No PAC invoice errors 20251203", clean.Banner())
	assert.Empty(t, clean.Contents)
}

func TestInvoiceErrorReport_DateStampUsesReportLocation(t *testing.T) {
	// 23:30 on Jan 14 in Los Angeles is already Jan 15 in UTC.
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	date := time.Date(2024, 1, 14, 23, 30, 0, 0, la)

	r := NewInvoiceErrorReport(date, nil)
	assert.Equal(t, "20240114", r.DateStamp())
}
