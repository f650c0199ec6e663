package handlers

import (
	"errors"
	"net/http"

	"kiranapos/internal/common"
	"kiranapos/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles signup, login and token lifecycle endpoints.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Signup handles POST /auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tokens, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return common.SendConflictError(c, err.Error())
		}
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, tokens)
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return common.SendUnauthorizedError(c)
		}
		return common.SendServerError(c, "Login failed")
	}

	return c.JSON(http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return common.SendValidationError(c, "refresh_token", "refresh_token is required")
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return common.SendUnauthorizedError(c)
	}

	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return common.SendServerError(c, "Logout failed")
	}

	return c.NoContent(http.StatusNoContent)
}
