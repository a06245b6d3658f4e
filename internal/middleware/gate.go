package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORS header values sent by the intake route.
const (
	AllowedMethods = "POST,OPTIONS"
	AllowedHeaders = "Content-Type"
)

// GateMiddleware is the first stop of the intake route.
//
// Echo's CORS middleware answers pre-flight with 204 and only for requests
// carrying an Origin header; browser forms embedded in the shop expect 200
// on every OPTIONS, so the gate is written by hand.
type GateMiddleware struct {
	allowedOrigin string
}

// NewGateMiddleware builds a gate. An empty origin allows any ("*").
func NewGateMiddleware(allowedOrigin string) *GateMiddleware {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &GateMiddleware{allowedOrigin: allowedOrigin}
}

// Gate sets the CORS headers on every response, answers OPTIONS with an
// empty 200 and rejects any method but POST with a plain-text 405. The body
// is never read for OPTIONS or rejected methods.
func (g *GateMiddleware) Gate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, g.allowedOrigin)
			h.Set(echo.HeaderAccessControlAllowMethods, AllowedMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, AllowedHeaders)

			switch c.Request().Method {
			case http.MethodOptions:
				return c.NoContent(http.StatusOK)
			case http.MethodPost:
				return next(c)
			default:
				h.Set(echo.HeaderAllow, AllowedMethods)
				return c.String(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
			}
		}
	}
}
