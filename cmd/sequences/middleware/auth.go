package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/sequences/cmd/sequences/auth"
)

// BearerGuard rejects requests without a valid bearer token.
//
// Usage:
//
//	api := e.Group("")
//	api.Use(middleware.BearerGuard(tokens))
func BearerGuard(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"detail": "bearer token required",
				})
			}

			if err := tokens.Verify(token); err != nil {
				detail := "invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					detail = "token expired"
				}
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"detail": detail,
				})
			}

			return next(c)
		}
	}
}
