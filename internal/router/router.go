// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps paths to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sarabibeach/booking-intake/internal/handler"
	"github.com/sarabibeach/booking-intake/internal/middleware"
	"github.com/sarabibeach/booking-intake/internal/server"
)

// IntakePaths are the paths the booking forms post to. "/api" is kept for
// forms published before "/api/booking" existed.
var IntakePaths = []string{"/api", "/api/booking"}

// NewRouter builds the Echo instance with global middleware, the intake
// routes and the system routes.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id feeds tracing and the request logger,
	// the transaction feeds the context logger.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
	)

	registerIntakeRoutes(router, h, middlewares)
	registerSystemRoutes(router, h)

	return router
}

// registerIntakeRoutes accepts every method on the intake paths so the gate,
// not the router, decides between 200, 405 and the pipeline. Rate and body
// limits only apply to requests the gate lets through.
func registerIntakeRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	submit := h.Booking.SubmitHandler()

	// Built once so both paths share one rate limit budget.
	chain := []echo.MiddlewareFunc{
		m.Gate.Gate(),
		m.RateLimit.Limit(),
		m.Global.BodyLimit(),
	}

	for _, path := range IntakePaths {
		r.Any(path, submit, chain...)
	}
}
