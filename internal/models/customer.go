package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an optional walk-in customer captured at checkout.
// Name and phone are required whenever a customer is attached to a sale.
type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AccountID uuid.UUID `json:"account_id" db:"account_id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Address   *string   `json:"address" db:"address"`
	GSTIN     *string   `json:"gstin" db:"gstin"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
