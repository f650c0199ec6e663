package handlers

import (
	"errors"
	"net/http"
	"time"

	"kiranapos/internal/common"
	"kiranapos/internal/models"
	"kiranapos/internal/services"

	"github.com/labstack/echo/v4"
)

// BusinessHandlers handles the store profile endpoints.
type BusinessHandlers struct {
	businessService services.BusinessService
}

func NewBusinessHandlers(businessService services.BusinessService) *BusinessHandlers {
	return &BusinessHandlers{businessService: businessService}
}

// GetProfile handles GET /business
func (h *BusinessHandlers) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	profile, err := h.businessService.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, services.ErrBusinessProfileNotFound) {
			return common.SendNotFoundError(c, "business profile")
		}
		return common.SendServerError(c, "Failed to retrieve business profile")
	}

	return c.JSON(http.StatusOK, profile)
}

// SaveProfile handles PUT /business
func (h *BusinessHandlers) SaveProfile(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name    string  `json:"name"`
		Address string  `json:"address"`
		City    string  `json:"city"`
		State   string  `json:"state"`
		Pincode string  `json:"pincode"`
		Phone   string  `json:"phone"`
		Email   *string `json:"email"`
		GSTIN   string  `json:"gstin"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	profile := &models.BusinessProfile{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Pincode: req.Pincode,
		Phone:   req.Phone,
		Email:   req.Email,
		GSTIN:   req.GSTIN,
	}
	if err := h.businessService.Save(ctx, accountID, profile); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, profile)
}

// UploadLogo handles POST /business/logo
func (h *BusinessHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return common.SendClientError(c, "logo file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	if err := h.businessService.UploadLogo(ctx, accountID, fileHeader.Filename, file, fileHeader.Size); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// GetLogoURL handles GET /business/logo
func (h *BusinessHandlers) GetLogoURL(c echo.Context) error {
	ctx := c.Request().Context()
	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	url, err := h.businessService.LogoURL(ctx, accountID, 15*time.Minute)
	if err != nil {
		return common.SendNotFoundError(c, "logo")
	}

	return c.JSON(http.StatusOK, map[string]string{"logo_url": url})
}
