package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is the closed set of tenders the register accepts.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

// Valid reports whether m is one of the accepted tenders.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

// Invoice is an immutable record of a completed sale. Once written it is
// only ever read; catalog edits after the sale never change it.
type Invoice struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	AccountID     uuid.UUID     `json:"account_id" db:"account_id"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"`
	CustomerID    *uuid.UUID    `json:"customer_id" db:"customer_id"`
	Customer      *Customer     `json:"customer,omitempty" db:"-"`
	Items         []InvoiceItem `json:"items" db:"-"`
	Subtotal      float64       `json:"subtotal" db:"subtotal"`
	Tax           TaxBreakdown  `json:"tax"`
	Total         float64       `json:"total" db:"total"`
	InterState    bool          `json:"inter_state" db:"inter_state"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	IssuedAt      time.Time     `json:"issued_at" db:"issued_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// InvoiceItem is a frozen copy of one cart line at the moment of sale.
type InvoiceItem struct {
	ID             uuid.UUID `json:"id" db:"id"`
	InvoiceID      uuid.UUID `json:"invoice_id" db:"invoice_id"`
	ProductID      uuid.UUID `json:"product_id" db:"product_id"`
	Name           string    `json:"name" db:"name"`
	HSNCode        *string   `json:"hsn_code" db:"hsn_code"`
	UnitPrice      float64   `json:"unit_price" db:"unit_price"`
	Quantity       int       `json:"quantity" db:"quantity"`
	TaxRatePercent float64   `json:"tax_rate_percent" db:"tax_rate_percent"`
	LineTotal      float64   `json:"line_total" db:"line_total"`
}

// InvoiceSearchFilter holds criteria for sales history queries.
type InvoiceSearchFilter struct {
	StartDate     *time.Time     `json:"start_date,omitempty"`
	EndDate       *time.Time     `json:"end_date,omitempty"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	CustomerID    *uuid.UUID     `json:"customer_id,omitempty"`
	Limit         int            `json:"limit,omitempty"`
	Offset        int            `json:"offset,omitempty"`
}
