package payment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"alma-pac/internal/domain/entity"
)

// Report column headers.
const (
	ColumnVendorCode        = "Vendor Code"
	ColumnInvoiceNumber     = "Invoice Number"
	ColumnInvoiceDate       = "Invoice Date"
	// ColumnInvoiceGross is in every report but never read: Alma is told
	// what was actually paid, which is the transaction amount.
	ColumnInvoiceGross      = "Invoice Gross Amount"
	ColumnTransactionAmount = "Transaction Amount"
	ColumnCheckNumber       = "Check Number"
	ColumnCheckDate         = "Check Date"
)

// reportDateLayout is the m/d/yyyy form Excel writes.
const reportDateLayout = "1/2/2006"

var requiredColumns = []string{
	ColumnVendorCode,
	ColumnInvoiceNumber,
	ColumnInvoiceDate,
	ColumnTransactionAmount,
	ColumnCheckNumber,
	ColumnCheckDate,
}

// Result is the outcome of reading a payment report.
type Result struct {
	Payments []entity.Payment

	// Skipped counts rows without a vendor code, which Excel leaves behind
	// as blank lines.
	Skipped int
}

// Read parses a payment report. A leading UTF-8 byte order mark is ignored.
// The first record is the header; columns are matched by name and may be
// in any order.
func Read(r io.Reader) (*Result, error) {
	cr := csv.NewReader(transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	result := &Result{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read payment report: %w", err)
		}
		line, _ := cr.FieldPos(0)

		field := func(name string) string {
			i := index[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		if strings.TrimSpace(field(ColumnVendorCode)) == "" {
			result.Skipped++
			continue
		}

		p, err := toPayment(field)
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				rowErr.Line = line
			}
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		result.Payments = append(result.Payments, p)
	}

	return result, nil
}

func toPayment(field func(string) string) (entity.Payment, error) {
	invoiceDate, err := parseDate(field(ColumnInvoiceDate))
	if err != nil {
		return entity.Payment{}, &RowError{Column: ColumnInvoiceDate, Err: err}
	}
	checkDate, err := parseDate(field(ColumnCheckDate))
	if err != nil {
		return entity.Payment{}, &RowError{Column: ColumnCheckDate, Err: err}
	}
	amount, err := NormalizeAmount(field(ColumnTransactionAmount))
	if err != nil {
		return entity.Payment{}, &RowError{Column: ColumnTransactionAmount, Err: err}
	}

	return entity.Payment{
		VendorCode: field(ColumnVendorCode),
		// invoice numbers arrive with trailing spaces and non-breaking spaces
		InvoiceNumber: strings.TrimFunc(field(ColumnInvoiceNumber), unicode.IsSpace),
		InvoiceDate:   invoiceDate,
		CheckNumber:   field(ColumnCheckNumber),
		CheckDate:     checkDate,
		Amount:        amount,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(reportDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected m/d/yyyy", s)
	}
	return t, nil
}

// NormalizeAmount turns an Excel amount such as "1,234.5" into "1234.50".
func NormalizeAmount(s string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("invalid amount %q", s)
	}
	return strconv.FormatFloat(v, 'f', 2, 64), nil
}
