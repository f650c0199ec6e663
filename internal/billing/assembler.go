// Package billing turns a cart snapshot plus a computed tax breakdown into
// an immutable invoice draft. It owns no state and talks to no storage;
// the checkout service assigns the invoice number and persists the result.
package billing

import (
	"errors"
	"strings"
	"time"

	"kiranapos/internal/gst"
	"kiranapos/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrEmptyCart reports an attempt to bill a cart with no items. A
	// zero-value invoice must never reach storage.
	ErrEmptyCart = errors.New("cannot create an invoice from an empty cart")

	// ErrInvalidCustomer reports a customer attachment missing its
	// required name or phone.
	ErrInvalidCustomer = errors.New("customer name and phone are required")

	// ErrInvalidPaymentMethod reports a tender outside cash/card/upi.
	ErrInvalidPaymentMethod = errors.New("payment method must be cash, card or upi")
)

// ReceiptLine is the per-item disclosure printed on a receipt: line total,
// GST rate and HSN code, so the renderer never recomputes anything.
type ReceiptLine struct {
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	LineTotal      float64 `json:"line_total"`
	TaxRatePercent float64 `json:"tax_rate_percent"`
	HSNCode        *string `json:"hsn_code,omitempty"`
}

// Build assembles an invoice draft from a cart snapshot and the breakdown
// produced by gst.Compute for the same items.
//
// The subtotal is accumulated at full precision and rounded once at the
// end; this is deliberately different from the tax breakdown, where each
// bucket is rounded before summing. Total = subtotal + total tax with no
// further rounding, since both operands are already at paisa precision.
//
// The returned invoice has no invoice number; the persistence layer
// assigns one atomically so concurrent checkouts on the same account can
// never collide.
func Build(items []models.LineItem, breakdown models.TaxBreakdown, customer *models.Customer, payment models.PaymentMethod, interState bool, now time.Time) (*models.Invoice, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if !payment.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if customer != nil {
		if strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Phone) == "" {
			return nil, ErrInvalidCustomer
		}
	}

	invoiceID := uuid.New()
	issuedAt := now.UTC()

	var subtotal float64
	invoiceItems := make([]models.InvoiceItem, 0, len(items))
	for _, item := range items {
		lineTotal := item.UnitPrice * float64(item.Quantity)
		subtotal += lineTotal

		invoiceItems = append(invoiceItems, models.InvoiceItem{
			ID:             uuid.New(),
			InvoiceID:      invoiceID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			HSNCode:        item.HSNCode,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			TaxRatePercent: item.TaxRatePercent,
			LineTotal:      gst.RoundPaise(lineTotal),
		})
	}
	subtotal = gst.RoundPaise(subtotal)

	invoice := &models.Invoice{
		ID:            invoiceID,
		Items:         invoiceItems,
		Subtotal:      subtotal,
		Tax:           breakdown,
		Total:         subtotal + breakdown.TotalTax,
		InterState:    interState,
		PaymentMethod: payment,
		IssuedAt:      issuedAt,
		CreatedAt:     issuedAt,
	}

	if customer != nil {
		c := *customer
		invoice.Customer = &c
		if c.ID != uuid.Nil {
			id := c.ID
			invoice.CustomerID = &id
		}
	}

	return invoice, nil
}

// ReceiptLines derives the printable per-item disclosure from a stored
// invoice. It reads the frozen snapshots only, so a receipt reprinted
// months later shows exactly what was sold.
func ReceiptLines(invoice *models.Invoice) []ReceiptLine {
	lines := make([]ReceiptLine, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		lines = append(lines, ReceiptLine{
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			LineTotal:      item.LineTotal,
			TaxRatePercent: item.TaxRatePercent,
			HSNCode:        item.HSNCode,
		})
	}
	return lines
}
