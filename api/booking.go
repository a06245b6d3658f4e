// Package api holds the serverless entry point of the intake.
//
// The platform invokes Handler for every request routed to this file. The
// application is assembled once per process and reused across invocations.
package api

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/sarabibeach/booking-intake/internal/app"
	"github.com/sarabibeach/booking-intake/internal/config"
)

var (
	once    sync.Once
	router  *echo.Echo
	initErr error
)

func setup() {
	cfg, err := config.LoadConfig()
	if err != nil {
		initErr = err
		log.Error().Err(err).Msg("failed to load config")
		return
	}

	a, err := app.New(cfg)
	if err != nil {
		initErr = err
		log.Error().Err(err).Msg("failed to initialize intake")
		return
	}

	router = a.Router
}

// Handler is the serverless function entry point. It serves the same routes
// as the serve command; the notification worker does not run here.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)

	if initErr != nil {
		// Detail stays in the platform logs.
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// Platform rewrites send every intake request to this function at /api.
	if r.URL.Path == "" || r.URL.Path == "/" {
		r.URL.Path = "/api"
	}

	router.ServeHTTP(w, r)
}
