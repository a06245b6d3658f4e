// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - Shopify Admin API client
//   - redis client and background job service (only with notifications)
//   - health checker and its periodic monitor
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sarabibeach/booking-intake/internal/config"
	"github.com/sarabibeach/booking-intake/internal/lib/health"
	"github.com/sarabibeach/booking-intake/internal/lib/job"
	"github.com/sarabibeach/booking-intake/internal/shopify"

	loggerPkg "github.com/sarabibeach/booking-intake/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// Shopify is the only backend of the intake.
	Shopify *shopify.Client

	// Redis and Job are nil unless notifications are enabled.
	Redis *redis.Client
	Job   *job.JobService

	Health *health.Checker

	// worker records that Job.Start succeeded.
	worker bool

	monitor    *health.Monitor
	httpServer *http.Server
}

// Option customizes New.
type Option func(*options)

type options struct {
	shopifyOpts []shopify.Option
	worker      bool
}

// WithShopifyOptions passes options to the Shopify client.
func WithShopifyOptions(opts ...shopify.Option) Option {
	return func(o *options) {
		o.shopifyOpts = append(o.shopifyOpts, opts...)
	}
}

// WithWorker starts the notification worker and the health monitor. Only the
// long-running serve command sets it; the serverless entry point and the
// submit command only enqueue.
func WithWorker() Option {
	return func(o *options) {
		o.worker = true
	}
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server. That is done in SetupHTTPServer + Start.
//
// Redis connection failure does not block startup; notifications are then
// logged as failed per request. JobService Start failure does.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService, opts ...Option) (*Server, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	shopifyOpts := append([]shopify.Option{
		shopify.WithSlowThreshold(cfg.Observability.Logging.SlowCallThreshold),
	}, o.shopifyOpts...)

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Shopify:       shopify.NewClient(cfg.Shopify, shopifyOpts...),
	}

	checkerOpts := []health.Option{
		health.WithChecks(cfg.Observability.HealthChecks.Checks),
		health.WithNewRelic(loggerService.GetApplication()),
	}

	if cfg.Notifications.Enabled {
		// Connections are lazy; the ping below only reports.
		server.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
		})

		if loggerService.GetApplication() != nil {
			server.Redis.AddHook(nrredis.NewHook(server.Redis.Options()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Redis.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis, notifications will fail until it is reachable")
		}

		server.Job = job.NewJobService(logger, cfg)
		server.Job.InitHandlers(cfg, logger)

		if o.worker {
			if err := server.Job.Start(); err != nil {
				server.closeOnError()
				return nil, fmt.Errorf("failed to start job server: %w", err)
			}
			server.worker = true
		}

		checkerOpts = append(checkerOpts, health.WithRedis(server.Redis, true))
	}

	server.Health = health.NewChecker(
		server.Shopify,
		cfg.Primary.Env,
		cfg.Observability.HealthChecks.Timeout,
		checkerOpts...,
	)

	if o.worker && cfg.Observability.HealthChecks.Enabled {
		monitor, err := health.NewMonitor(server.Health, cfg.Observability.HealthChecks.Interval, logger)
		if err != nil {
			server.closeOnError()
			return nil, err
		}
		monitor.Start()
		server.monitor = monitor
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server.
// Config stores timeouts as seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("shopify_api_version", s.Config.Shopify.APIVersion).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its dependencies.
// It is safe to call without SetupHTTPServer.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.monitor != nil {
		s.monitor.Stop(ctx)
	}

	if s.Job != nil {
		if s.worker {
			s.Job.Stop()
		} else if err := s.Job.CloseClient(); err != nil {
			return fmt.Errorf("failed to close job client: %w", err)
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}

	return nil
}

// closeOnError releases what New acquired before failing.
func (s *Server) closeOnError() {
	if err := s.Shutdown(context.Background()); err != nil {
		s.Logger.Error().Err(err).Msg("cleanup after failed startup")
	}
}
