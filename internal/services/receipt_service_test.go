package services

import (
	"testing"
	"time"

	"kiranapos/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sampleInvoice() *models.Invoice {
	hsn := "0902"
	return &models.Invoice{
		ID:            uuid.New(),
		AccountID:     uuid.New(),
		InvoiceNumber: "INV-9F3A2B1C-2026-03-000042",
		Items: []models.InvoiceItem{
			{
				ID:             uuid.New(),
				Name:           "Red Label Tea 500g",
				HSNCode:        &hsn,
				UnitPrice:      260,
				Quantity:       2,
				TaxRatePercent: 5,
				LineTotal:      520,
			},
		},
		Subtotal:      520,
		Tax:           models.TaxBreakdown{CGST: 13, SGST: 13, TotalTax: 26},
		Total:         546,
		PaymentMethod: models.PaymentUPI,
		IssuedAt:      time.Date(2026, 3, 15, 11, 30, 0, 0, time.UTC),
	}
}

func TestReceiptRender_ProducesPDF(t *testing.T) {
	service := NewReceiptService(nil, "kiranapos-receipts")

	profile := &models.BusinessProfile{
		Name:    "Sharma General Store",
		Address: "12 MG Road",
		City:    "Jaipur",
		State:   "Rajasthan",
		Pincode: "302001",
		Phone:   "9876543210",
		GSTIN:   "08ABCDE1234F1Z5",
	}

	pdfBytes, err := service.Render(sampleInvoice(), profile)

	assert.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestReceiptRender_WorksWithoutProfile(t *testing.T) {
	service := NewReceiptService(nil, "kiranapos-receipts")

	pdfBytes, err := service.Render(sampleInvoice(), nil)

	assert.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}
