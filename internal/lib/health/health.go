// Package health probes the dependencies of the intake.
//
// The same Checker backs the GET /status endpoint and the periodic monitor
// started by the serve command.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Check names.
const (
	CheckShopify = "shopify"
	CheckRedis   = "redis"
)

// ShopPinger is satisfied by *shopify.Client.
type ShopPinger interface {
	Ping(ctx context.Context) (string, error)
}

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
	Detail       string `json:"detail,omitempty"`

	// Required checks make the report unhealthy when they fail.
	Required bool `json:"-"`
}

// Report aggregates every probe of one run.
type Report struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// Healthy reports whether every required check passed.
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy
}

// Checker runs the configured probes.
type Checker struct {
	shop          ShopPinger
	redis         *redis.Client
	redisRequired bool
	checks        map[string]bool
	timeout       time.Duration
	environment   string
	nrApp         *newrelic.Application
}

// Option customizes a Checker.
type Option func(*Checker)

// WithRedis adds a Redis probe. A required Redis failure marks the whole
// report unhealthy; otherwise it is reported but tolerated.
func WithRedis(client *redis.Client, required bool) Option {
	return func(c *Checker) {
		c.redis = client
		c.redisRequired = required
	}
}

// WithNewRelic records a HealthCheckError custom event for every failure.
func WithNewRelic(app *newrelic.Application) Option {
	return func(c *Checker) {
		c.nrApp = app
	}
}

// WithChecks limits the probes to names. An empty list keeps all of them.
func WithChecks(names []string) Option {
	return func(c *Checker) {
		if len(names) == 0 {
			return
		}
		c.checks = make(map[string]bool, len(names))
		for _, n := range names {
			c.checks[n] = true
		}
	}
}

// NewChecker builds a Checker. shop may be nil to skip the Shopify probe.
func NewChecker(shop ShopPinger, environment string, timeout time.Duration, opts ...Option) *Checker {
	c := &Checker{
		shop:        shop,
		timeout:     timeout,
		environment: environment,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) enabled(name string) bool {
	return c.checks == nil || c.checks[name]
}

// Run executes the probes concurrently and waits for all of them.
func (c *Checker) Run(ctx context.Context, logger *zerolog.Logger) *Report {
	report := &Report{
		Status:      StatusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: c.environment,
		Checks:      make(map[string]CheckResult),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	record := func(name string, res CheckResult) {
		mu.Lock()
		defer mu.Unlock()
		report.Checks[name] = res
		if res.Status != StatusHealthy && res.Required {
			report.Status = StatusUnhealthy
		}
	}

	if c.shop != nil && c.enabled(CheckShopify) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record(CheckShopify, c.probe(ctx, logger, CheckShopify, true, func(ctx context.Context) (string, error) {
				return c.shop.Ping(ctx)
			}))
		}()
	}

	if c.redis != nil && c.enabled(CheckRedis) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record(CheckRedis, c.probe(ctx, logger, CheckRedis, c.redisRequired, func(ctx context.Context) (string, error) {
				return "", c.redis.Ping(ctx).Err()
			}))
		}()
	}

	wg.Wait()

	if !report.Healthy() {
		c.recordEvent(map[string]interface{}{
			"check_type": "overall",
			"operation":  "health_check",
			"error_type": "overall_unhealthy",
		})
	}

	return report
}

func (c *Checker) probe(
	ctx context.Context,
	logger *zerolog.Logger,
	name string,
	required bool,
	fn func(ctx context.Context) (string, error),
) CheckResult {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	detail, err := fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		c.recordEvent(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return CheckResult{
			Status:       StatusUnhealthy,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
			Required:     required,
		}
	}

	logger.Debug().
		Str("check", name).
		Dur("response_time", elapsed).
		Msg("health check passed")

	return CheckResult{
		Status:       StatusHealthy,
		ResponseTime: elapsed.String(),
		Detail:       detail,
		Required:     required,
	}
}

func (c *Checker) recordEvent(params map[string]interface{}) {
	if c.nrApp == nil {
		return
	}
	c.nrApp.RecordCustomEvent("HealthCheckError", params)
}
