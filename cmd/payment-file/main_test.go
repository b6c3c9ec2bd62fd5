package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const report = "\ufeffVendor Code,Invoice Number,Invoice Date,Invoice Gross Amount,Transaction Amount,Check Number,Check Date\r\n" +
	"YBP,INV-1 ,3/1/2024,\"1,000.00\",\"1,000\",000123,3/20/2024\r\n" +
	",,,,,,\r\n"

func writeReport(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "payments.csv")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestPaymentFile_Stdout(t *testing.T) {
	stdout, err := run(t, writeReport(t, report))

	require.NoError(t, err)
	assert.Contains(t, stdout, "<invoice_number>INV-1</invoice_number>")
	assert.Contains(t, stdout, "<sum>1000.00</sum>")
	assert.Contains(t, stdout, "<payment_voucher_date>20240320</payment_voucher_date>")
}

func TestPaymentFile_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "payments.xml")

	stdout, err := run(t, "-o", out, writeReport(t, report))

	require.NoError(t, err)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<vendor_code>YBP</vendor_code>")
}

func TestPaymentFile_BadReportLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "payments.xml")
	bad := "Vendor Code,Invoice Number\nYBP,1\n"

	_, err := run(t, "-o", out, writeReport(t, bad))

	require.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPaymentFile_RequiresOneArgument(t *testing.T) {
	_, err := run(t)
	assert.Error(t, err)
}

func TestPaymentFile_MissingInput(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "nope.csv"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open payment report")
}
