package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarabibeach/booking-intake/internal/config"
	"github.com/sarabibeach/booking-intake/internal/logger"
	"github.com/sarabibeach/booking-intake/internal/shopify"
	"github.com/sarabibeach/booking-intake/internal/shopify/shopifytest"
)

type countingTransport struct {
	next  http.RoundTripper
	count atomic.Int32
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.count.Add(1)
	return t.next.RoundTrip(r)
}

func testConfig(t *testing.T, fake *shopifytest.Server) *config.Config {
	t.Helper()

	obs := config.DefaultObservabilityConfig()
	obs.Logging.Level = "error"

	cfg := &config.Config{Shopify: fake.Config(), Observability: obs}
	require.NoError(t, cfg.Finalize())
	return cfg
}

func TestNewUsesShopifyOptions(t *testing.T) {
	fake := shopifytest.NewServer(t)
	cfg := testConfig(t, fake)
	log := zerolog.Nop()

	transport := &countingTransport{next: fake.Client().Transport}
	s, err := New(cfg, &log, logger.NewLoggerService(cfg.Observability),
		WithShopifyOptions(shopify.WithHTTPClient(&http.Client{Transport: transport})))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	name, err := s.Shopify.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Test Shop", name)
	assert.Equal(t, int32(1), transport.count.Load())
}

func TestNewFailsOnInvalidMonitorInterval(t *testing.T) {
	fake := shopifytest.NewServer(t)
	cfg := testConfig(t, fake)
	cfg.Observability.HealthChecks.Enabled = true
	cfg.Observability.HealthChecks.Interval = 0
	log := zerolog.Nop()

	s, err := New(cfg, &log, logger.NewLoggerService(cfg.Observability), WithWorker())

	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "interval must be positive")
}

func TestShutdownWithoutHTTPServer(t *testing.T) {
	fake := shopifytest.NewServer(t)
	cfg := testConfig(t, fake)
	log := zerolog.Nop()

	s, err := New(cfg, &log, nil)
	require.NoError(t, err)

	assert.NoError(t, s.Shutdown(context.Background()))
}
