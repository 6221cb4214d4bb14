package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/lyzr/sequences/cmd/sequences/container"
	"github.com/lyzr/sequences/cmd/sequences/handlers"
	"github.com/lyzr/sequences/cmd/sequences/repository"
	"github.com/lyzr/sequences/cmd/sequences/routes"
	"github.com/lyzr/sequences/common/bootstrap"
	"github.com/lyzr/sequences/common/server"
)

const serviceName = "sequence-api"

func main() {
	ctx := context.Background()

	// Bootstrap common components (config, logger, DB) and run migrations
	components, err := bootstrap.Setup(ctx, serviceName,
		bootstrap.WithDBInitHook(repository.Migrate),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap %s: %v\n", serviceName, err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	// Initialize Echo server
	e := setupEcho()

	// Setup middleware
	setupMiddleware(e)

	// Setup health check
	setupHealthCheck(e, serviceContainer)

	// Register all routes
	registerRoutes(e, serviceContainer)

	// Start with graceful shutdown
	srv := server.New(serviceName, components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestID())
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, c *container.Container) {
	h := handlers.NewHealthHandler(c.Components.DB, serviceName)
	e.GET("/health", h.Check)
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterAuthRoutes(e, serviceContainer)
	routes.RegisterSequenceRoutes(e, serviceContainer)
}

// requestValidator adapts go-playground/validator to echo's Validator interface
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
