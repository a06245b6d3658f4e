// Package shopify is a thin client for the Shopify Admin GraphQL API,
// covering the customer operations the booking intake needs.
//
// Every call is a single POST with its own deadline. Results are classified
// into transport failures (*TransportError) and semantic failures
// (*UserErrors); nothing is retried.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sarabibeach/booking-intake/internal/config"
)

const (
	// AccessTokenHeader carries the Admin API token.
	AccessTokenHeader = "X-Shopify-Access-Token"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 1 << 20

	// maxDetailBytes caps the response snippet kept in a TransportError.
	maxDetailBytes = 300
)

// Client calls the Admin GraphQL endpoint of one store.
type Client struct {
	httpClient    *http.Client
	endpoint      string
	accessToken   string
	timeout       time.Duration
	slowThreshold time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default New Relic-instrumented HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithSlowThreshold logs calls slower than d at warn level.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *Client) {
		c.slowThreshold = d
	}
}

// NewClient builds a client for cfg.StoreDomain and cfg.APIVersion.
//
// The default transport records a New Relic external segment for every call
// made inside a transaction.
func NewClient(cfg config.ShopifyConfig, opts ...Option) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = "https://" + cfg.StoreDomain
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		},
		endpoint:    fmt.Sprintf("%s/admin/api/%s/graphql.json", strings.TrimRight(base, "/"), cfg.APIVersion),
		accessToken: cfg.AccessToken,
		timeout:     cfg.RequestTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Endpoint returns the GraphQL URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type graphQLRequest struct {
	Query     string      `json:"query"`
	Variables interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Do executes one GraphQL document and decodes its data into out.
//
// Any failure is returned as *TransportError. userErrors inside data are the
// caller's concern, since their location depends on the operation.
func (c *Client) Do(ctx context.Context, op, query string, variables, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return errors.Wrapf(err, "shopify %s: failed to encode request", op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "shopify %s: failed to build request", op)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(AccessTokenHeader, c.accessToken)

	logger := zerolog.Ctx(ctx).With().Str("shopify_op", op).Logger()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Detail: transportDetail(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	duration := time.Since(start)
	if err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Detail: "failed to read response", Err: err}
	}

	event := logger.Debug()
	if c.slowThreshold > 0 && duration > c.slowThreshold {
		event = logger.Warn()
	}
	event.
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("shopify call completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     snippet(raw),
		}
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Detail: "undecodable response: " + snippet(raw), Err: err}
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Detail: strings.Join(messages, "; ")}
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Detail: "response has no data"}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &TransportError{Op: op, StatusCode: resp.StatusCode, Detail: "unexpected data shape", Err: err}
		}
	}

	return nil
}

func transportDetail(ctx context.Context, err error) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(ctx.Err(), context.Canceled):
		return "request canceled"
	}
	return "request failed: " + err.Error()
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxDetailBytes {
		cut := maxDetailBytes
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	if s == "" {
		return "empty response"
	}
	return s
}
