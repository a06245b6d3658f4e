package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarabibeach/booking-intake/internal/middleware"
	"github.com/sarabibeach/booking-intake/internal/server"
)

// HealthHandler exposes the status endpoint used by uptime monitors.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth probes Shopify (and Redis when notifications are on).
//
// It returns:
//   - 200 OK if all required checks pass
//   - 503 Service Unavailable otherwise
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	report := h.server.Health.Run(c.Request().Context(), &logger)

	if !report.Healthy() {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, report)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, report); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
