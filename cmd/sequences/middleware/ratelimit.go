package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/sequences/common/ratelimit"
)

// RateLimitMiddleware checks a per-client fixed-window rate limit before
// letting a request through. On limiter errors the request is allowed
// (fail open for availability).
func RateLimitMiddleware(limiter *ratelimit.RateLimiter, limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := limiter.CheckClientLimit(c.Request().Context(), c.RealIP(), limit, 60)
			if err != nil {
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "rate_limit_exceeded",
					"message": "Too many requests. Please try again later.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"window":              "60 seconds",
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
