package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"kiranapos/internal/common"
	"kiranapos/internal/models"
	"kiranapos/internal/services"

	"github.com/labstack/echo/v4"
)

// CustomerHandlers handles HTTP requests for walk-in customers.
type CustomerHandlers struct {
	customerService services.CustomerService
}

func NewCustomerHandlers(customerService services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService}
}

type customerRequest struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address *string `json:"address"`
	GSTIN   *string `json:"gstin"`
}

// CreateCustomer handles POST /customers
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customer := &models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		GSTIN:   req.GSTIN,
	}
	if err := h.customerService.Create(ctx, accountID, customer); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles GET /customers/:id
func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customerID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	customer, err := h.customerService.GetByID(ctx, accountID, customerID)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "customer")
		}
		return common.SendServerError(c, "Failed to retrieve customer")
	}

	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomer handles PUT /customers/:id
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	customerID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	customer := &models.Customer{
		ID:      customerID,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		GSTIN:   req.GSTIN,
	}
	if err := h.customerService.Update(ctx, accountID, customer); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "customer")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, customer)
}

// ListCustomers handles GET /customers
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	customers, err := h.customerService.List(ctx, accountID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, customers)
}
