package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/lyzr/sequences/cmd/sequences/container"
	"github.com/lyzr/sequences/cmd/sequences/handlers"
	"github.com/lyzr/sequences/cmd/sequences/middleware"
)

// RegisterSequenceRoutes registers the bearer-guarded sequence endpoints
func RegisterSequenceRoutes(e *echo.Echo, c *container.Container) {
	// Create handler with dependencies
	h := handlers.NewSequenceHandler(c.SequenceService)

	api := e.Group("")
	api.Use(middleware.BearerGuard(c.Tokens))

	cfg := c.Components.Config.RateLimit
	if cfg.Enabled {
		api.Use(middleware.RateLimitMiddleware(c.RateLimiter, cfg.RequestsPerMinute))
	}

	api.POST("/sequences", h.CreateSequence)     // POST /sequences
	api.GET("/subsequences", h.ListSubsequences) // GET /subsequences?limit=10
}
