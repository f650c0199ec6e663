package models

import (
	"time"

	"github.com/google/uuid"
)

// BusinessProfile is the shop identity printed on receipts. One row per
// account; created empty at signup and filled in from settings.
type BusinessProfile struct {
	AccountID  uuid.UUID `json:"account_id" db:"account_id"`
	Name       string    `json:"name" db:"name"`
	Address    string    `json:"address" db:"address"`
	City       string    `json:"city" db:"city"`
	State      string    `json:"state" db:"state"`
	Pincode    string    `json:"pincode" db:"pincode"`
	Phone      string    `json:"phone" db:"phone"`
	Email      *string   `json:"email" db:"email"`
	GSTIN      string    `json:"gstin" db:"gstin"`
	LogoObject *string   `json:"logo_object" db:"logo_object"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
