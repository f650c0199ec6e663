package handlers

import (
	"errors"
	"net/http"

	"kiranapos/internal/common"
	"kiranapos/internal/models"
	"kiranapos/internal/services"

	"github.com/labstack/echo/v4"
)

// CategoryHandlers handles HTTP requests for product categories.
type CategoryHandlers struct {
	categoryService services.CategoryService
}

func NewCategoryHandlers(categoryService services.CategoryService) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

// CreateCategory handles POST /categories
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	category := &models.Category{Name: req.Name, Description: req.Description}
	if err := h.categoryService.Create(ctx, accountID, category); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, category)
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	categoryID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	category, err := h.categoryService.GetByID(ctx, accountID, categoryID)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			return common.SendNotFoundError(c, "category")
		}
		return common.SendServerError(c, "Failed to retrieve category")
	}

	return c.JSON(http.StatusOK, category)
}

// UpdateCategory handles PUT /categories/:id
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	categoryID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	category := &models.Category{ID: categoryID, Name: req.Name, Description: req.Description}
	if err := h.categoryService.Update(ctx, accountID, category); err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			return common.SendNotFoundError(c, "category")
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	categoryID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.categoryService.Delete(ctx, accountID, categoryID); err != nil {
		return common.SendServerError(c, "Failed to delete category")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListCategories handles GET /categories
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	categories, err := h.categoryService.List(ctx, accountID)
	if err != nil {
		return common.SendServerError(c, "Failed to list categories")
	}

	return c.JSON(http.StatusOK, categories)
}
