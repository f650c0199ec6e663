package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"kiranapos/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoices() []*models.Invoice {
	customer := &models.Customer{
		ID:    uuid.New(),
		Name:  "Ramesh Kumar",
		Phone: "9876543210",
	}
	return []*models.Invoice{
		{
			ID:            uuid.New(),
			InvoiceNumber: "INV-9F3A2B1C-2026-03-000001",
			Customer:      customer,
			Items: []models.InvoiceItem{
				{Name: "Tata Salt 1kg", Quantity: 2, UnitPrice: 28, LineTotal: 56},
				{Name: "Parle-G", Quantity: 3, UnitPrice: 10, LineTotal: 30},
			},
			Subtotal:      86,
			Tax:           models.TaxBreakdown{CGST: 4.10, SGST: 4.10, TotalTax: 8.20},
			Total:         94.20,
			PaymentMethod: models.PaymentUPI,
			IssuedAt:      time.Date(2026, 3, 15, 10, 45, 0, 0, time.UTC),
		},
		{
			ID:            uuid.New(),
			InvoiceNumber: "INV-9F3A2B1C-2026-03-000002",
			Items: []models.InvoiceItem{
				{Name: "LED TV 43in", Quantity: 1, UnitPrice: 15000, LineTotal: 15000},
			},
			Subtotal:      15000,
			Tax:           models.TaxBreakdown{IGST: 2700, TotalTax: 2700},
			Total:         17700,
			InterState:    true,
			PaymentMethod: models.PaymentCard,
			IssuedAt:      time.Date(2026, 3, 16, 18, 5, 0, 0, time.UTC),
		},
	}
}

func TestCSVWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 12)
	assert.Equal(t, "Invoice Number", row[0])
	assert.Equal(t, "Payment Method", row[11])
}

func TestCSVWriteInvoices(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteInvoices(testInvoices()))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[1]
	assert.Equal(t, "INV-9F3A2B1C-2026-03-000001", first[0])
	assert.Equal(t, "Ramesh Kumar", first[2])
	assert.Equal(t, "9876543210", first[3])
	assert.Equal(t, "5", first[4])
	assert.Equal(t, "86.00", first[5])
	assert.Equal(t, "4.10", first[6])
	assert.Equal(t, "8.20", first[9])
	assert.Equal(t, "94.20", first[10])
	assert.Equal(t, "UPI", first[11])

	second := rows[2]
	assert.Equal(t, "Walk-in Customer", second[2])
	assert.Equal(t, "", second[3])
	assert.Equal(t, "2700.00", second[8])
	assert.Equal(t, "CARD", second[11])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testInvoices()))
	// XLSX is a zip archive; PK is the magic prefix
	assert.Equal(t, "PK", buf.String()[:2])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "sales_report", SanitizeFilename("sales report!"))
	assert.Equal(t, "a_b", SanitizeFilename("a///b"))
	assert.Equal(t, "report", SanitizeFilename("__report__"))
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("sales report", "csv")
	assert.Contains(t, name, "sales_report_")
	assert.Contains(t, name, ".csv")
}
