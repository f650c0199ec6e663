package billing

import (
	"testing"
	"time"

	"kiranapos/internal/gst"
	"kiranapos/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 8, 14, 10, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

func sampleCart() []models.LineItem {
	hsn := "1905"
	return []models.LineItem{
		{ProductID: uuid.New(), Name: "Biscuits", UnitPrice: 80, Quantity: 1, TaxRatePercent: 5, HSNCode: &hsn},
		{ProductID: uuid.New(), Name: "Detergent", UnitPrice: 500, Quantity: 2, TaxRatePercent: 12},
	}
}

func TestBuild_EmptyCart(t *testing.T) {
	_, err := Build(nil, models.TaxBreakdown{}, nil, models.PaymentCash, false, testNow)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = Build([]models.LineItem{}, models.TaxBreakdown{}, nil, models.PaymentCash, false, testNow)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuild_InvalidPaymentMethod(t *testing.T) {
	items := sampleCart()
	breakdown, err := gst.Compute(items, false)
	require.NoError(t, err)

	_, err = Build(items, breakdown, nil, models.PaymentMethod("cheque"), false, testNow)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = Build(items, breakdown, nil, "", false, testNow)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestBuild_InvalidCustomer(t *testing.T) {
	items := sampleCart()
	breakdown, err := gst.Compute(items, false)
	require.NoError(t, err)

	cases := []models.Customer{
		{Name: "", Phone: "9876543210"},
		{Name: "Asha", Phone: ""},
		{Name: "   ", Phone: "9876543210"},
		{Name: "Asha", Phone: "  "},
	}
	for _, c := range cases {
		customer := c
		_, err := Build(items, breakdown, &customer, models.PaymentCash, false, testNow)
		assert.ErrorIs(t, err, ErrInvalidCustomer)
	}
}

func TestBuild_TotalsReconcile(t *testing.T) {
	items := sampleCart()
	breakdown, err := gst.Compute(items, false)
	require.NoError(t, err)

	invoice, err := Build(items, breakdown, nil, models.PaymentUPI, false, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1080.00, invoice.Subtotal)
	assert.Equal(t, 62.00, invoice.Tax.CGST)
	assert.Equal(t, 62.00, invoice.Tax.SGST)
	assert.Equal(t, 124.00, invoice.Tax.TotalTax)
	assert.Equal(t, 1204.00, invoice.Total)
	assert.Equal(t, invoice.Subtotal+invoice.Tax.TotalTax, invoice.Total)
}

func TestBuild_InterStateScenario(t *testing.T) {
	items := []models.LineItem{
		{ProductID: uuid.New(), Name: "Refrigerator", UnitPrice: 15000.00, Quantity: 1, TaxRatePercent: 18},
	}
	breakdown, err := gst.Compute(items, true)
	require.NoError(t, err)

	invoice, err := Build(items, breakdown, nil, models.PaymentCard, true, testNow)
	require.NoError(t, err)

	assert.Equal(t, 15000.00, invoice.Subtotal)
	assert.Equal(t, 2700.00, invoice.Tax.IGST)
	assert.Equal(t, 17700.00, invoice.Total)
	assert.True(t, invoice.InterState)
}

func TestBuild_ItemsAreSnapshots(t *testing.T) {
	items := sampleCart()
	breakdown, err := gst.Compute(items, false)
	require.NoError(t, err)

	invoice, err := Build(items, breakdown, nil, models.PaymentCash, false, testNow)
	require.NoError(t, err)
	require.Len(t, invoice.Items, 2)

	// Mutating the cart after assembly must not reach the invoice.
	items[0].UnitPrice = 999
	items[1].Quantity = 50

	assert.Equal(t, 80.00, invoice.Items[0].UnitPrice)
	assert.Equal(t, 2, invoice.Items[1].Quantity)
	assert.Equal(t, 80.00, invoice.Items[0].LineTotal)
	assert.Equal(t, 1000.00, invoice.Items[1].LineTotal)

	for _, item := range invoice.Items {
		assert.Equal(t, invoice.ID, item.InvoiceID)
		assert.NotEqual(t, uuid.Nil, item.ID)
	}
}

func TestBuild_CustomerIsCopied(t *testing.T) {
	items := sampleCart()
	breakdown, err := gst.Compute(items, false)
	require.NoError(t, err)

	customer := models.Customer{ID: uuid.New(), Name: "Asha", Phone: "9876543210"}
	invoice, err := Build(items, breakdown, &customer, models.PaymentCash, false, testNow)
	require.NoError(t, err)

	customer.Name = "changed"

	require.NotNil(t, invoice.Customer)
	assert.Equal(t, "Asha", invoice.Customer.Name)
	require.NotNil(t, invoice.CustomerID)
	assert.Equal(t, customer.ID, *invoice.CustomerID)
}

func TestBuild_TimestampIsUTC(t *testing.T) {
	items := sampleCart()
	breakdown, err := gst.Compute(items, false)
	require.NoError(t, err)

	invoice, err := Build(items, breakdown, nil, models.PaymentCash, false, testNow)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, invoice.IssuedAt.Location())
	assert.True(t, invoice.IssuedAt.Equal(testNow))
	assert.Empty(t, invoice.InvoiceNumber, "number assignment belongs to persistence")
}

func TestReceiptLines(t *testing.T) {
	items := sampleCart()
	breakdown, err := gst.Compute(items, false)
	require.NoError(t, err)

	invoice, err := Build(items, breakdown, nil, models.PaymentCash, false, testNow)
	require.NoError(t, err)

	lines := ReceiptLines(invoice)
	require.Len(t, lines, 2)

	assert.Equal(t, "Biscuits", lines[0].Name)
	assert.Equal(t, 80.00, lines[0].LineTotal)
	assert.Equal(t, 5.0, lines[0].TaxRatePercent)
	require.NotNil(t, lines[0].HSNCode)
	assert.Equal(t, "1905", *lines[0].HSNCode)

	assert.Equal(t, 1000.00, lines[1].LineTotal)
	assert.Equal(t, 12.0, lines[1].TaxRatePercent)
	assert.Nil(t, lines[1].HSNCode)
}
