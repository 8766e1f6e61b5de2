package router

import (
	"github.com/labstack/echo/v4"

	"olicore/internal/adapter/api/handler"
)

// SetupHealthRouter sets up health check routes.
func SetupHealthRouter(e *echo.Echo, healthHandler *handler.HealthHandler) {
	e.GET("/health", healthHandler.CheckHealth)
	e.GET("/db-health", healthHandler.CheckDatabaseHealth)
}
