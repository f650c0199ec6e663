package handlers

import (
	"errors"
	"net/http"

	"kiranapos/internal/billing"
	"kiranapos/internal/common"
	"kiranapos/internal/gst"
	"kiranapos/internal/repositories"
	"kiranapos/internal/services"

	"github.com/labstack/echo/v4"
)

// CheckoutHandlers handles the point of sale endpoint.
type CheckoutHandlers struct {
	checkoutService services.CheckoutService
}

func NewCheckoutHandlers(checkoutService services.CheckoutService) *CheckoutHandlers {
	return &CheckoutHandlers{checkoutService: checkoutService}
}

// Checkout handles POST /checkout. On success the persisted invoice is
// returned with its assigned invoice number.
func (h *CheckoutHandlers) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, err := h.checkoutService.Checkout(ctx, accountID, &req)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrEmptyCart),
			errors.Is(err, billing.ErrInvalidPaymentMethod),
			errors.Is(err, billing.ErrInvalidCustomer),
			errors.Is(err, gst.ErrInvalidTaxRate):
			return common.SendClientError(c, err.Error())
		case errors.Is(err, repositories.ErrInsufficientStock):
			return common.SendConflictError(c, err.Error())
		case errors.Is(err, services.ErrProductNotFound):
			return common.SendNotFoundError(c, "product")
		default:
			return common.SendServerError(c, "Checkout failed")
		}
	}

	return c.JSON(http.StatusCreated, invoice)
}
