package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/lyzr/sequences/cmd/sequences/container"
	"github.com/lyzr/sequences/cmd/sequences/handlers"
)

// RegisterAuthRoutes registers the open token issuance endpoint
func RegisterAuthRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAuthHandler(c.Tokens)

	e.POST("/auth/token", h.IssueToken) // POST /auth/token
}
