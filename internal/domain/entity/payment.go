package entity

import (
	"strings"
	"time"
)

// PaymentStatusPaid is the only payment status PAC reports back to Alma.
const PaymentStatusPaid = "PAID"

// PaymentCurrency is the currency of every PAC voucher.
const PaymentCurrency = "USD"

// Payment is one paid invoice from the campus payment report.
// Amount is already normalised to two decimal places.
type Payment struct {
	VendorCode    string
	InvoiceNumber string
	InvoiceDate   time.Time
	CheckNumber   string
	CheckDate     time.Time
	Amount        string
}

// Validate checks the fields Alma needs to match a payment to an invoice.
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.VendorCode) == "" {
		return &ValidationError{Field: "vendor_code", Message: "required"}
	}
	if p.InvoiceNumber == "" {
		return &ValidationError{Field: "invoice_number", Message: "required"}
	}
	if p.InvoiceDate.IsZero() {
		return &ValidationError{Field: "invoice_date", Message: "required"}
	}
	if p.CheckDate.IsZero() {
		return &ValidationError{Field: "check_date", Message: "required"}
	}
	if p.Amount == "" {
		return &ValidationError{Field: "amount", Message: "required"}
	}
	return nil
}
