package export

import (
	"fmt"
	"io"
	"strings"

	"kiranapos/internal/models"

	"github.com/xuri/excelize/v2"
)

var xlsxColumns = []struct {
	header string
	width  float64
}{
	{"Invoice Number", 26},
	{"Date", 12},
	{"Time", 10},
	{"Customer Name", 20},
	{"Customer Phone", 15},
	{"Items Count", 10},
	{"Subtotal", 12},
	{"CGST", 10},
	{"SGST", 10},
	{"IGST", 10},
	{"Total GST", 12},
	{"Total Amount", 15},
	{"Payment Method", 15},
}

// WriteXLSX renders a two-sheet workbook: the per-invoice sales report
// plus a payment method summary, matching the CSV figures exactly.
func WriteXLSX(w io.Writer, invoices []*models.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	const salesSheet = "Sales Report"
	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return err
	}

	for i, col := range xlsxColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(salesSheet, cell, col.header); err != nil {
			return err
		}
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(salesSheet, colName, colName, col.width); err != nil {
			return err
		}
	}

	for i, invoice := range invoices {
		row := i + 2
		values := []interface{}{
			invoice.InvoiceNumber,
			invoice.IssuedAt.Format("02-01-2006"),
			invoice.IssuedAt.Format("15:04"),
			customerName(invoice),
			customerPhone(invoice),
			itemCount(invoice),
			invoice.Subtotal,
			invoice.Tax.CGST,
			invoice.Tax.SGST,
			invoice.Tax.IGST,
			invoice.Tax.TotalTax,
			invoice.Total,
			strings.ToUpper(string(invoice.PaymentMethod)),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(salesSheet, cell, &values); err != nil {
			return err
		}
	}

	if err := writePaymentSummary(f, invoices); err != nil {
		return err
	}

	return f.Write(w)
}

func writePaymentSummary(f *excelize.File, invoices []*models.Invoice) error {
	const sheet = "Payment Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	type bucket struct {
		count  int
		amount float64
	}
	buckets := map[models.PaymentMethod]*bucket{
		models.PaymentUPI:  {},
		models.PaymentCash: {},
		models.PaymentCard: {},
	}

	var totalAmount float64
	for _, invoice := range invoices {
		totalAmount += invoice.Total
		if b, ok := buckets[invoice.PaymentMethod]; ok {
			b.count++
			b.amount += invoice.Total
		}
	}

	rows := [][]interface{}{
		{"Payment Method", "Transaction Count", "Total Amount"},
		{"UPI", buckets[models.PaymentUPI].count, buckets[models.PaymentUPI].amount},
		{"CASH", buckets[models.PaymentCash].count, buckets[models.PaymentCash].amount},
		{"CARD", buckets[models.PaymentCard].count, buckets[models.PaymentCard].amount},
		{"", "", ""},
		{"TOTAL", len(invoices), totalAmount},
	}

	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "C", 18)
}
