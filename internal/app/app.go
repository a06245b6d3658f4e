// Package app assembles the application from a Config: logger, server
// container, services, handlers and router. Every entry point (serve,
// submit, the serverless function) goes through it.
package app

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sarabibeach/booking-intake/internal/config"
	"github.com/sarabibeach/booking-intake/internal/handler"
	"github.com/sarabibeach/booking-intake/internal/logger"
	"github.com/sarabibeach/booking-intake/internal/router"
	"github.com/sarabibeach/booking-intake/internal/server"
	"github.com/sarabibeach/booking-intake/internal/service"
)

// App is a fully wired application.
type App struct {
	Config   *config.Config
	Logger   *zerolog.Logger
	Server   *server.Server
	Services *service.Services
	Router   *echo.Echo
}

// New wires an App. opts are passed to server.New.
func New(cfg *config.Config, opts ...server.Option) (*App, error) {
	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService, opts...)
	if err != nil {
		loggerService.Shutdown()
		return nil, err
	}

	services, err := service.NewServices(srv)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		loggerService.Shutdown()
		return nil, err
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	return &App{
		Config:   cfg,
		Logger:   &log,
		Server:   srv,
		Services: services,
		Router:   r,
	}, nil
}

// Close shuts down the server container and flushes New Relic.
func (a *App) Close(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	a.Server.LoggerService.Shutdown()
	return err
}
