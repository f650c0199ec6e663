package models

import (
	"github.com/google/uuid"
)

// LineItem is a cart row snapshotted at sale time: price, quantity and GST
// rate as they were when the item was rung up. The cart itself lives in the
// client; the server only ever sees these snapshots.
type LineItem struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPrice      float64   `json:"unit_price"`
	Quantity       int       `json:"quantity"`
	TaxRatePercent float64   `json:"tax_rate_percent"`
	HSNCode        *string   `json:"hsn_code,omitempty"`
}

// TaxBreakdown is the CGST/SGST/IGST split for a cart, each component
// rounded to 2 decimal places. TotalTax is always the sum of the three
// rounded components, so the printed parts reconcile with the printed total.
type TaxBreakdown struct {
	CGST     float64 `json:"cgst" db:"cgst"`
	SGST     float64 `json:"sgst" db:"sgst"`
	IGST     float64 `json:"igst" db:"igst"`
	TotalTax float64 `json:"total_tax" db:"total_tax"`
}
