package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sarabibeach/booking-intake/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the intake:
// health status, docs UI and the static assets it loads.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.StaticDir)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
