package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sarabibeach/booking-intake/internal/errs"
	"github.com/sarabibeach/booking-intake/internal/remoteerr"
	"github.com/sarabibeach/booking-intake/internal/server"
)

// GlobalMiddlewares groups "global" middleware and the global error handler.
//
// It holds *server.Server so middleware can read config values.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// RequestLogger returns Echo's request logger middleware with a zerolog
// LogValuesFunc: one "API" line per request, level by status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error the global error handler has not
			// written the final status yet; derive it from the error.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = statusFromError(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func statusFromError(err error) int {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr.Code
	}

	var httpErr *errs.HTTPError
	if errors.As(remoteerr.HandleError(err), &httpErr) {
		return httpErr.Status
	}

	return http.StatusInternalServerError
}

// Recover returns Echo's panic recovery middleware. Panics become 500s.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// BodyLimit caps request bodies at server.body_limit.
func (global *GlobalMiddlewares) BodyLimit() echo.MiddlewareFunc {
	return middleware.BodyLimit(global.server.Config.Server.BodyLimit)
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error returned by a handler or middleware ends up here and is
// rendered as an errs.HTTPError. The original error is logged; the client
// only sees the sanitized one.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			switch echoErr.Code {
			case http.StatusNotFound:
				err = errs.NewNotFoundError("Route not found", false, nil)
			case http.StatusMethodNotAllowed:
				err = errs.NewMethodNotAllowedError()
			}
		} else {
			// Remote platform and pipeline errors.
			err = remoteerr.HandleError(err)
		}
	}

	var echoErr *echo.HTTPError
	var response errs.HTTPError

	switch {
	case errors.As(err, &httpErr):
		response = *httpErr
		response.Success = false

	case errors.As(err, &echoErr):
		status := echoErr.Code
		message := http.StatusText(status)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
		response = errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(status)),
			Message: message,
			Status:  status,
		}

	default:
		response = errs.HTTPError{
			Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
			Message: http.StatusText(http.StatusInternalServerError),
			Status:  http.StatusInternalServerError,
		}
	}

	logger := GetLogger(c)

	event := logger.Warn()
	if response.Status >= 500 {
		event = logger.Error().Stack()
	}

	event.
		Err(originalErr).
		Int("status", response.Status).
		Str("error_code", response.Code).
		Msg(response.Message)

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(response.Status)
			return
		}
		_ = c.JSON(response.Status, response)
	}
}
