package middleware

import (
	"net/http"
	"time"

	"kiranapos/internal/caching"

	"github.com/labstack/echo/v4"
)

// RateLimit throttles requests per client IP using the shared Redis
// counter. Redis being down never blocks traffic.
func RateLimit(cacheService caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limited, err := cacheService.IsRateLimited(c.Request().Context(), c.RealIP(), limit, window)
			if err != nil {
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
