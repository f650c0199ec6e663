package common

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateGSTIN(t *testing.T) {
	assert.NoError(t, ValidateGSTIN("", "gstin"))
	assert.NoError(t, ValidateGSTIN("27AAPFU0939F1ZV", "gstin"))
	assert.Error(t, ValidateGSTIN("27AAPFU0939F1Z", "gstin"))   // 14 chars
	assert.Error(t, ValidateGSTIN("XXAAPFU0939F1ZV", "gstin")) // bad state code
	assert.Error(t, ValidateGSTIN("27aapfu0939f1zv", "gstin")) // lowercase
}

func TestValidateHSNCode(t *testing.T) {
	assert.NoError(t, ValidateHSNCode("", "hsn"))
	assert.NoError(t, ValidateHSNCode("1905", "hsn"))
	assert.NoError(t, ValidateHSNCode("190531", "hsn"))
	assert.NoError(t, ValidateHSNCode("19053100", "hsn"))
	assert.Error(t, ValidateHSNCode("19053", "hsn"))
	assert.Error(t, ValidateHSNCode("19O5", "hsn"))
}

func TestValidateTaxRate(t *testing.T) {
	assert.NoError(t, ValidateTaxRate(0, "rate"))
	assert.NoError(t, ValidateTaxRate(18, "rate"))
	assert.NoError(t, ValidateTaxRate(100, "rate"))
	assert.Error(t, ValidateTaxRate(-1, "rate"))
	assert.Error(t, ValidateTaxRate(100.5, "rate"))
}

func TestValidateUUID(t *testing.T) {
	id := uuid.New()
	parsed, err := ValidateUUID(id.String(), "id")
	assert.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ValidateUUID("", "id")
	assert.Error(t, err)
	_, err = ValidateUUID("not-a-uuid", "id")
	assert.Error(t, err)
}

func TestAccountIDContextRoundTrip(t *testing.T) {
	accountID := uuid.New()
	ctx := context.WithValue(context.Background(), AccountIDKey, accountID)

	got, ok := GetAccountIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, accountID, got)

	_, ok = GetAccountIDFromContext(context.Background())
	assert.False(t, ok)
}
