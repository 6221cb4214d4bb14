package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyzr/sequences/cmd/sequences/models"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler reports service and database health
type HealthHandler struct {
	store       Pinger
	serviceName string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, serviceName string) *HealthHandler {
	return &HealthHandler{
		store:       store,
		serviceName: serviceName,
	}
}

// Check pings the store and reports health
// GET /health
func (h *HealthHandler) Check(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, models.HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Service:  h.serviceName,
			Error:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Service:  h.serviceName,
	})
}
