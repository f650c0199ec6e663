package middleware

import (
	"context"
	"net/http"

	"kiranapos/internal/common"
	"kiranapos/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTConfig builds the echo-jwt configuration for protected routes. On a
// valid token the user and account IDs from the claims are copied into the
// request context so repositories can scope every query by account.
func JWTConfig(secret string) echojwt.Config {
	return echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(*services.TokenClaims)
			if !ok {
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return
			}
			accountID, err := uuid.Parse(claims.AccountID)
			if err != nil {
				return
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.AccountIDKey, accountID)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}
