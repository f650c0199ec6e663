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

// ProductHandlers handles HTTP requests for the catalog.
type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type productRequest struct {
	Name           string   `json:"name"`
	CategoryID     *string  `json:"category_id"`
	Barcode        *string  `json:"barcode"`
	HSNCode        *string  `json:"hsn_code"`
	UnitPrice      float64  `json:"unit_price"`
	GSTRatePercent float64  `json:"gst_rate_percent"`
	Stock          int      `json:"stock"`
}

func (h *ProductHandlers) toModel(req *productRequest) (*models.Product, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if err := common.ValidateNonNegativeFloat(req.UnitPrice, "unit_price", 10_000_000); err != nil {
		return nil, err
	}
	if err := common.ValidateTaxRate(req.GSTRatePercent, "gst_rate_percent"); err != nil {
		return nil, err
	}
	if req.HSNCode != nil && common.SafeString(req.HSNCode) != "" {
		if err := common.ValidateHSNCode(common.SafeString(req.HSNCode), "hsn_code"); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		Name:           req.Name,
		Barcode:        req.Barcode,
		HSNCode:        req.HSNCode,
		UnitPrice:      req.UnitPrice,
		GSTRatePercent: req.GSTRatePercent,
		Stock:          req.Stock,
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := common.ValidateUUID(*req.CategoryID, "category_id")
		if err != nil {
			return nil, err
		}
		product.CategoryID = &categoryID
	}
	return product, nil
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product, err := h.toModel(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.productService.Create(ctx, accountID, product); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, product)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	product, err := h.productService.GetByID(ctx, accountID, productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return common.SendNotFoundError(c, "product")
		}
		return common.SendServerError(c, "Failed to retrieve product")
	}

	return c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	product, err := h.toModel(&req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	product.ID = productID

	if err := h.productService.Update(ctx, accountID, product); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return common.SendNotFoundError(c, "product")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.productService.Delete(ctx, accountID, productID); err != nil {
		return common.SendServerError(c, "Failed to delete product")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	products, err := h.productService.List(ctx, accountID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list products")
	}

	return c.JSON(http.StatusOK, products)
}

// GetProductByBarcode handles GET /products/barcode/:barcode
func (h *ProductHandlers) GetProductByBarcode(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	product, err := h.productService.GetByBarcode(ctx, accountID, c.Param("barcode"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return common.SendNotFoundError(c, "product")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}

// SearchProducts handles GET /products/search
func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	filter := &models.ProductSearchFilter{
		Query:     c.QueryParam("q"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	filter.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	if categoryIDStr := c.QueryParam("category_id"); categoryIDStr != "" {
		categoryID, err := common.ValidateUUID(categoryIDStr, "category_id")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		filter.CategoryID = &categoryID
	}
	if barcode := c.QueryParam("barcode"); barcode != "" {
		filter.Barcode = &barcode
	}
	if c.QueryParam("in_stock") == "true" {
		filter.InStock = true
	}

	products, err := h.productService.Search(ctx, accountID, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to search products")
	}

	return c.JSON(http.StatusOK, products)
}

// ListLowStock handles GET /products/low-stock
func (h *ProductHandlers) ListLowStock(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	threshold, err := strconv.Atoi(c.QueryParam("threshold"))
	if err != nil || threshold < 0 {
		threshold = 5
	}

	products, err := h.productService.ListLowStock(ctx, accountID, threshold)
	if err != nil {
		return common.SendServerError(c, "Failed to list low stock products")
	}

	return c.JSON(http.StatusOK, products)
}
