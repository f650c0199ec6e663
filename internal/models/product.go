package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductSearchFilter holds search and filter criteria for catalog queries
type ProductSearchFilter struct {
	Query      string     `json:"query,omitempty"`       // Name or barcode search
	CategoryID *uuid.UUID `json:"category_id,omitempty"` // Filter by category
	Barcode    *string    `json:"barcode,omitempty"`     // Exact barcode match
	InStock    bool       `json:"in_stock,omitempty"`    // Only products with stock > 0
	MaxStock   *int       `json:"max_stock,omitempty"`   // Low-stock threshold queries
	SortBy     string     `json:"sort_by,omitempty"`     // Sort field: name, created_at, stock, unit_price
	SortOrder  string     `json:"sort_order,omitempty"`  // Sort order: asc, desc
	Limit      int        `json:"limit,omitempty"`       // Page size (default: 50)
	Offset     int        `json:"offset,omitempty"`      // Page offset
}

type Product struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	AccountID      uuid.UUID  `json:"account_id" db:"account_id"`
	CategoryID     *uuid.UUID `json:"category_id" db:"category_id"`
	Name           string     `json:"name" db:"name"`
	Barcode        *string    `json:"barcode" db:"barcode"`
	HSNCode        *string    `json:"hsn_code" db:"hsn_code"`
	UnitPrice      float64    `json:"unit_price" db:"unit_price"`
	GSTRatePercent float64    `json:"gst_rate_percent" db:"gst_rate_percent"`
	Stock          int        `json:"stock" db:"stock"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
