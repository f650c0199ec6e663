// Package export renders sales history as downloadable CSV and XLSX
// reports. Rows come straight from the stored invoice snapshots, so the
// exported figures always match the printed receipts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"kiranapos/internal/models"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// csvColumns defines the CSV header row.
var csvColumns = []string{
	"Invoice Number",
	"Date",
	"Customer Name",
	"Customer Phone",
	"Items",
	"Subtotal",
	"CGST",
	"SGST",
	"IGST",
	"Total GST",
	"Total",
	"Payment Method",
}

// CSVWriter wraps csv.Writer for exporting invoices as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes CSV to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(csvColumns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *CSVWriter) WriteInvoices(invoices []*models.Invoice) error {
	for _, invoice := range invoices {
		if err := w.csv.Write(invoiceToRow(invoice)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func invoiceToRow(invoice *models.Invoice) []string {
	row := make([]string, len(csvColumns))
	row[0] = invoice.InvoiceNumber
	row[1] = invoice.IssuedAt.Format("02-01-2006 15:04")
	row[2] = customerName(invoice)
	row[3] = customerPhone(invoice)
	row[4] = strconv.Itoa(itemCount(invoice))
	row[5] = formatMoney(invoice.Subtotal)
	row[6] = formatMoney(invoice.Tax.CGST)
	row[7] = formatMoney(invoice.Tax.SGST)
	row[8] = formatMoney(invoice.Tax.IGST)
	row[9] = formatMoney(invoice.Tax.TotalTax)
	row[10] = formatMoney(invoice.Total)
	row[11] = strings.ToUpper(string(invoice.PaymentMethod))
	return row
}

func customerName(invoice *models.Invoice) string {
	if invoice.Customer != nil && invoice.Customer.Name != "" {
		return invoice.Customer.Name
	}
	return "Walk-in Customer"
}

func customerPhone(invoice *models.Invoice) string {
	if invoice.Customer != nil {
		return invoice.Customer.Phone
	}
	return ""
}

func itemCount(invoice *models.Invoice) int {
	count := 0
	for _, item := range invoice.Items {
		count += item.Quantity
	}
	return count
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
