// Package shopifytest provides a fake Shopify Admin GraphQL endpoint for
// tests. It records every call and answers from per-operation responders.
package shopifytest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/sarabibeach/booking-intake/internal/config"
)

// Defaults used by Config and the default responders.
const (
	StoreDomain = "test-shop.myshopify.com"
	AccessToken = "shpat_test_token"
	CustomerID  = "gid://shopify/Customer/7001"
)

// Call is one recorded request.
type Call struct {
	Op        string
	Path      string
	Token     string
	Query     string
	Variables map[string]interface{}
}

// Responder produces the status and body for a call.
type Responder func(call Call) (int, string)

// Server is a fake Admin API.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	calls      []Call
	responders map[string]Responder
}

var opName = regexp.MustCompile(`^\s*(?:mutation|query)\s+(\w+)`)

// NewServer starts a fake with successful default responders. It is closed
// when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		responders: map[string]Responder{
			"customerCreate": Static(http.StatusOK, fmt.Sprintf(
				`{"data":{"customerCreate":{"customer":{"id":%q},"userErrors":[]}}}`, CustomerID)),
			"customerSmsMarketingConsentUpdate": Static(http.StatusOK, fmt.Sprintf(
				`{"data":{"customerSmsMarketingConsentUpdate":{"customer":{"id":%q},"userErrors":[]}}}`, CustomerID)),
			"metafieldsSet": Static(http.StatusOK,
				`{"data":{"metafieldsSet":{"metafields":[],"userErrors":[]}}}`),
			"customerDelete": Static(http.StatusOK, fmt.Sprintf(
				`{"data":{"customerDelete":{"deletedCustomerId":%q,"userErrors":[]}}}`, CustomerID)),
			"tagsAdd": Static(http.StatusOK, fmt.Sprintf(
				`{"data":{"tagsAdd":{"node":{"id":%q},"userErrors":[]}}}`, CustomerID)),
			"shop": Static(http.StatusOK, `{"data":{"shop":{"name":"Test Shop"}}}`),
		},
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	var payload struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	_ = json.Unmarshal(raw, &payload)

	call := Call{
		Path:      r.URL.Path,
		Token:     r.Header.Get("X-Shopify-Access-Token"),
		Query:     payload.Query,
		Variables: payload.Variables,
	}
	if m := opName.FindStringSubmatch(payload.Query); m != nil {
		call.Op = m[1]
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	responder, ok := s.responders[call.Op]
	s.mu.Unlock()

	status, body := http.StatusBadRequest, `{"errors":[{"message":"unknown operation"}]}`
	if ok {
		status, body = responder(call)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// On replaces the responder of op.
func (s *Server) On(op string, r Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responders[op] = r
}

// Calls returns every recorded call in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the recorded calls of op.
func (s *Server) CallsTo(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Config points a client at the fake.
func (s *Server) Config() config.ShopifyConfig {
	return config.ShopifyConfig{
		StoreDomain:    StoreDomain,
		AccessToken:    AccessToken,
		APIVersion:     config.DefaultAPIVersion,
		RequestTimeout: 2 * time.Second,
		MaxConcurrency: 4,
		BaseURL:        s.URL,
	}
}

// Static always answers status and body.
func Static(status int, body string) Responder {
	return func(Call) (int, string) {
		return status, body
	}
}

// UserErrors answers op with a single userErrors entry.
func UserErrors(op string, field []string, message string) Responder {
	fieldJSON, _ := json.Marshal(field)
	return Static(http.StatusOK, fmt.Sprintf(
		`{"data":{%q:{"userErrors":[{"field":%s,"message":%q}]}}}`, op, fieldJSON, message))
}
