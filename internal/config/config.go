// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types, validates that required
// values are present and fills in defaults so the rest of the application
// only ever sees a complete, read-only configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Accept the legacy variable names used by the serverless deployment
//     (SHOPIFY_STORE, SHOPIFY_ADMIN_TOKEN, API_VERSION).
//   - Map INTAKE_-prefixed variables into nested config blocks.
//   - Validate required values so the app fails fast on bad/missing config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process environment before
	// any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of every first-class configuration variable.
	//
	// Nesting is expressed with a double underscore:
	//
	//	INTAKE_SHOPIFY__API_VERSION -> shopify.api_version
	EnvPrefix = "INTAKE_"

	// DefaultAPIVersion is used when neither API_VERSION nor
	// INTAKE_SHOPIFY__API_VERSION is set.
	DefaultAPIVersion = "2025-07"
)

// legacyKeys maps the variable names of the original deployment onto
// koanf keys. INTAKE_ variables override them.
var legacyKeys = map[string]string{
	"SHOPIFY_STORE":       "shopify.store_domain",
	"SHOPIFY_ADMIN_TOKEN": "shopify.access_token",
	"API_VERSION":         "shopify.api_version",
}

// Metafield modes.
const (
	// MetafieldModeInline sends metafields inside the customerCreate input.
	MetafieldModeInline = "inline"
	// MetafieldModeSeparate attaches each metafield with its own call once
	// the customer id is known.
	MetafieldModeSeparate = "separate"
)

// Compensation policies applied when the customer was created but a later
// step failed.
const (
	CompensationDelete = "delete"
	CompensationTag    = "tag"
	CompensationNone   = "none"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary"`
	Server        ServerConfig         `koanf:"server"`
	Shopify       ShopifyConfig        `koanf:"shopify" validate:"required"`
	Intake        IntakeConfig         `koanf:"intake"`
	Redis         RedisConfig          `koanf:"redis"`
	Notifications NotificationsConfig  `koanf:"notifications"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port         string `koanf:"port"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout int    `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"gte=0"`

	// AllowedOrigin is echoed in Access-Control-Allow-Origin on the intake route.
	AllowedOrigin string `koanf:"allowed_origin"`

	// BodyLimit caps the intake request body (echo size notation, e.g. "64K").
	BodyLimit string `koanf:"body_limit"`
}

// ShopifyConfig addresses the remote Admin API.
type ShopifyConfig struct {
	// StoreDomain is the shop host, e.g. "sarabibeach.myshopify.com".
	StoreDomain string `koanf:"store_domain" validate:"required"`

	// AccessToken is sent as X-Shopify-Access-Token. Never logged.
	AccessToken string `koanf:"access_token" validate:"required"`

	APIVersion string `koanf:"api_version"`

	// RequestTimeout bounds every single outbound call.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gte=0"`

	// MaxConcurrency bounds the metafield fan-out in separate mode.
	MaxConcurrency int `koanf:"max_concurrency" validate:"gte=0"`

	// BaseURL overrides "https://<store_domain>". Used by tests and proxies.
	BaseURL string `koanf:"base_url"`
}

// IntakeConfig controls how a booking is mapped onto the remote customer.
type IntakeConfig struct {
	MetafieldNamespace string `koanf:"metafield_namespace"`
	MetafieldMode      string `koanf:"metafield_mode"`
	Compensation       string `koanf:"compensation"`

	// IncompleteTag is added to the customer when Compensation is "tag".
	IncompleteTag string `koanf:"incomplete_tag"`

	// RateLimitPerMinute is the per-IP budget on the intake route. 0 disables it.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute" validate:"gte=0"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port". Only needed for notifications.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
}

// NotificationsConfig controls the booking-received email.
type NotificationsConfig struct {
	Enabled    bool   `koanf:"enabled"`
	From       string `koanf:"from"`
	StaffEmail string `koanf:"staff_email" validate:"omitempty,email"`
}

// IntegrationConfig stores third-party API keys.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies defaults, and returns the result.
//
// Behavior summary:
//   - Loads the legacy variable names first
//   - Loads INTAKE_ variables on top, "__" becoming "."
//   - Unmarshals into Config and validates required fields
//   - Applies defaults and cross-field rules
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider("", ".", func(s string) string {
		// An empty key tells the provider to skip the variable.
		return legacyKeys[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load legacy env variables: %w", err)
	}

	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := mainConfig.finalize(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// finalize validates tags, injects defaults and runs cross-field checks.
// It is shared by LoadConfig and tests that build a Config by hand.
func (c *Config) finalize() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	c.applyDefaults()

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always follow the primary config so
	// logs and traces are tagged consistently.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if err := c.Validate(); err != nil {
		return err
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

// Finalize is the exported form of finalize for callers that assemble a
// Config without the environment (the submit command, tests).
func (c *Config) Finalize() error {
	return c.finalize()
}

func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.AllowedOrigin == "" {
		c.Server.AllowedOrigin = "*"
	}
	if c.Server.BodyLimit == "" {
		c.Server.BodyLimit = "64K"
	}

	if c.Shopify.APIVersion == "" {
		c.Shopify.APIVersion = DefaultAPIVersion
	}
	if c.Shopify.RequestTimeout == 0 {
		c.Shopify.RequestTimeout = 10 * time.Second
	}
	if c.Shopify.MaxConcurrency == 0 {
		c.Shopify.MaxConcurrency = 4
	}

	if c.Intake.MetafieldNamespace == "" {
		c.Intake.MetafieldNamespace = "booking"
	}
	if c.Intake.MetafieldMode == "" {
		c.Intake.MetafieldMode = MetafieldModeInline
	}
	if c.Intake.Compensation == "" {
		c.Intake.Compensation = CompensationDelete
	}
	if c.Intake.IncompleteTag == "" {
		c.Intake.IncompleteTag = "intake-incomplete"
	}
	if c.Intake.RateLimitPerMinute == 0 {
		c.Intake.RateLimitPerMinute = 30
	}

	if c.Notifications.From == "" {
		c.Notifications.From = "Bookings <onboarding@resend.dev>"
	}
}

// Validate applies rules that go beyond struct tags: enum values and
// prerequisites of optional features.
func (c *Config) Validate() error {
	switch c.Intake.MetafieldMode {
	case MetafieldModeInline, MetafieldModeSeparate:
	default:
		return fmt.Errorf("invalid intake metafield_mode: %s (must be one of: inline, separate)", c.Intake.MetafieldMode)
	}

	switch c.Intake.Compensation {
	case CompensationDelete, CompensationTag, CompensationNone:
	default:
		return fmt.Errorf("invalid intake compensation: %s (must be one of: delete, tag, none)", c.Intake.Compensation)
	}

	if c.Notifications.Enabled {
		if c.Redis.Address == "" {
			return fmt.Errorf("notifications require redis.address")
		}
		if c.Integration.ResendAPIKey == "" {
			return fmt.Errorf("notifications require integration.resend_api_key")
		}
	}

	return nil
}

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}
