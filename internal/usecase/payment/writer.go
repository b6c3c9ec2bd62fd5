package payment

import (
	"encoding/xml"
	"fmt"
	"io"

	"alma-pac/internal/domain/entity"
)

// Namespace is the Alma acquisitions xmlbeans namespace.
const Namespace = "http://com/exlibris/repository/acq/xmlbeans"

// confirmationDateLayout is the YYYYMMDD form Alma expects.
const confirmationDateLayout = "20060102"

type confirmationData struct {
	XMLName     xml.Name    `xml:"http://com/exlibris/repository/acq/xmlbeans payment_confirmation_data"`
	InvoiceList invoiceList `xml:"invoice_list"`
}

type invoiceList struct {
	Invoices []xmlInvoice `xml:"invoice"`
}

// xmlInvoice mirrors Alma's invoice element. Field order is the schema order.
type xmlInvoice struct {
	VendorCode           string        `xml:"vendor_code"`
	InvoiceNumber        string        `xml:"invoice_number"`
	UniqueIdentifier     string        `xml:"unique_identifier"`
	PaymentStatus        string        `xml:"payment_status"`
	PaymentNote          string        `xml:"payment_note"`
	InvoiceDate          string        `xml:"invoice_date"`
	PaymentVoucherDate   string        `xml:"payment_voucher_date"`
	PaymentVoucherNumber string        `xml:"payment_voucher_number"`
	VoucherAmount        voucherAmount `xml:"voucher_amount"`
}

type voucherAmount struct {
	Currency string `xml:"currency"`
	Sum      string `xml:"sum"`
}

// WriteXML writes the payment confirmation document for payments to w.
// An empty payments slice still yields a valid document with an empty
// invoice list.
func WriteXML(w io.Writer, payments []entity.Payment) error {
	var doc confirmationData
	for _, p := range payments {
		doc.InvoiceList.Invoices = append(doc.InvoiceList.Invoices, xmlInvoice{
			VendorCode:           p.VendorCode,
			InvoiceNumber:        p.InvoiceNumber,
			PaymentStatus:        entity.PaymentStatusPaid,
			InvoiceDate:          p.InvoiceDate.Format(confirmationDateLayout),
			PaymentVoucherDate:   p.CheckDate.Format(confirmationDateLayout),
			PaymentVoucherNumber: p.CheckNumber,
			VoucherAmount: voucherAmount{
				Currency: entity.PaymentCurrency,
				Sum:      p.Amount,
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode payment confirmation: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	return nil
}
