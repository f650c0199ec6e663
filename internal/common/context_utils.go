package common

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	AccountIDKey contextKey = "account_id"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// SendConflictError sends a conflict error response
func SendConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", message, nil))
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	if strings.TrimSpace(idStr) == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}

	id, err := uuid.Parse(strings.TrimSpace(idStr))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID: %v", fieldName, err)
	}

	return id, nil
}

// ValidatePositiveInteger validates positive integer values with upper bounds
func ValidatePositiveInteger(value int, fieldName string, maxValue int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", fieldName)
	}
	if value > maxValue {
		return fmt.Errorf("%s cannot exceed %d", fieldName, maxValue)
	}
	return nil
}

// ValidateNonNegativeFloat validates non-negative float values with upper bounds
func ValidateNonNegativeFloat(value float64, fieldName string, maxValue float64) error {
	if value < 0 {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	if value > maxValue {
		return fmt.Errorf("%s cannot exceed %.2f", fieldName, maxValue)
	}
	return nil
}

// ValidateTaxRate validates a GST percentage rate
func ValidateTaxRate(rate float64, fieldName string) error {
	if rate < 0 || rate > 100 {
		return fmt.Errorf("%s must be between 0 and 100", fieldName)
	}
	return nil
}

// ValidateDateFormat validates date strings
func ValidateDateFormat(dateStr, fieldName string) error {
	if strings.TrimSpace(dateStr) == "" {
		return nil // Empty is allowed, will be handled elsewhere
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}

	if date.After(time.Now().AddDate(10, 0, 0)) {
		return fmt.Errorf("%s cannot be more than 10 years in the future", fieldName)
	}
	if date.Before(time.Now().AddDate(-100, 0, 0)) {
		return fmt.Errorf("%s cannot be more than 100 years ago", fieldName)
	}

	return nil
}

// ValidateDateRange validates that a start/end pair is ordered and bounded
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return fmt.Errorf("end date cannot be before start date")
	}
	if endDate.Sub(startDate) > 366*24*time.Hour {
		return fmt.Errorf("date range cannot exceed one year")
	}
	return nil
}

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[0-9A-Z]{1}[Z]{1}[0-9A-Z]{1}$`)

// ValidateGSTIN validates GSTIN format
func ValidateGSTIN(gstin, fieldName string) error {
	if strings.TrimSpace(gstin) == "" {
		return nil // GSTIN is optional
	}

	// GSTIN format: 2-digit state code, PAN, entity code, Z, checksum (15 chars)
	if len(gstin) != 15 {
		return fmt.Errorf("%s must be exactly 15 characters", fieldName)
	}

	if !gstinPattern.MatchString(gstin) {
		return fmt.Errorf("%s has invalid GSTIN format", fieldName)
	}

	return nil
}

var phonePattern = regexp.MustCompile(`^[0-9+\-\s]{7,15}$`)

// ValidatePhone validates an Indian retail-counter phone entry
func ValidatePhone(phone, fieldName string) error {
	if strings.TrimSpace(phone) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%s has invalid phone format", fieldName)
	}
	return nil
}

// ValidateHSNCode validates an HSN/SAC code (4, 6 or 8 digits)
func ValidateHSNCode(hsn, fieldName string) error {
	if strings.TrimSpace(hsn) == "" {
		return nil // HSN is optional
	}
	switch len(hsn) {
	case 4, 6, 8:
	default:
		return fmt.Errorf("%s must be 4, 6 or 8 digits", fieldName)
	}
	for _, r := range hsn {
		if r < '0' || r > '9' {
			return fmt.Errorf("%s must contain only digits", fieldName)
		}
	}
	return nil
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateOptionalString validates optional string fields
func ValidateOptionalString(value *string, fieldName string, maxLength int) error {
	if value != nil {
		if len(*value) > maxLength {
			return fmt.Errorf("%s cannot exceed %d characters", fieldName, maxLength)
		}
		*value = strings.TrimSpace(*value)
	}
	return nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SafeFloat64 safely handles float64 pointer operations
func SafeFloat64(f *float64) float64 {
	if f == nil {
		return 0.0
	}
	return *f
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetAccountIDFromContext extracts the account ID from the request context
func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	accountID, ok := ctx.Value(AccountIDKey).(uuid.UUID)
	return accountID, ok
}

// SecureErrorMessage wraps internal errors so responses never leak
// implementation detail while logs keep the cause.
func SecureErrorMessage(operation string, err error) error {
	return fmt.Errorf("%s failed: %w", operation, err)
}
