package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/sarabibeach/booking-intake/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server.
//
// Build once, reuse everywhere: router setup receives one object instead of
// constructing middleware itself.
type Middlewares struct {
	// Global holds request logging, recovery, secure headers, body limit and
	// the global error handler.
	Global *GlobalMiddlewares

	// Gate answers CORS pre-flight and rejects non-POST methods on the intake.
	Gate *GateMiddleware

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and custom attributes.
	Tracing *TracingMiddleware

	// RateLimit enforces the per-IP intake budget and records hits.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components.
//
// When New Relic is not configured nrApp is nil and tracing degrades into a
// no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Gate:            NewGateMiddleware(s.Config.Server.AllowedOrigin),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
