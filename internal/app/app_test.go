package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarabibeach/booking-intake/internal/config"
	"github.com/sarabibeach/booking-intake/internal/errs"
	"github.com/sarabibeach/booking-intake/internal/handler"
	"github.com/sarabibeach/booking-intake/internal/server"
	"github.com/sarabibeach/booking-intake/internal/shopify"
	"github.com/sarabibeach/booking-intake/internal/shopify/shopifytest"
)

const annaBianchi = `{
	"firstName": "Anna",
	"lastName": "Bianchi",
	"email": "anna@example.com",
	"phone": "+39 333 1234567",
	"birthdate": "15/06/1990",
	"service": "Sunbed & umbrella",
	"dateRequest": "25/12/2024",
	"timeRequest": "10:00",
	"participants": 2,
	"notes": "Front row please",
	"consentMarketing": true
}`

func newTestApp(t *testing.T, mutate func(*config.Config)) (*App, *shopifytest.Server) {
	t.Helper()

	fake := shopifytest.NewServer(t)

	obs := config.DefaultObservabilityConfig()
	obs.Logging.Level = "error"

	cfg := &config.Config{
		Shopify:       fake.Config(),
		Observability: obs,
	}
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Finalize())

	prev := handler.StaticDir
	handler.StaticDir = "../../static"
	t.Cleanup(func() { handler.StaticDir = prev })

	a, err := New(cfg, server.WithShopifyOptions(shopify.WithHTTPClient(fake.Client())))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	return a, fake
}

func do(a *App, method, path, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	assert.False(t, body.Success)
	return body
}

func TestIntakeSuccess(t *testing.T) {
	for _, path := range []string{"/api", "/api/booking"} {
		t.Run(path, func(t *testing.T) {
			a, fake := newTestApp(t, nil)

			rec := do(a, http.MethodPost, path, annaBianchi, echo.MIMEApplicationJSON)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, `{"success":true,"id":"gid://shopify/Customer/7001"}`, rec.Body.String())
			assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

			creates := fake.CallsTo("customerCreate")
			require.Len(t, creates, 1)
			input := creates[0].Variables["input"].(map[string]interface{})
			assert.Equal(t, "+393331234567", input["phone"])
			assert.Len(t, input["metafields"], 6)

			consents := fake.CallsTo("customerSmsMarketingConsentUpdate")
			require.Len(t, consents, 1)
			consentInput := consents[0].Variables["input"].(map[string]interface{})
			assert.Equal(t, shopifytest.CustomerID, consentInput["customerId"])
			assert.Equal(t, "SUBSCRIBED", consentInput["smsMarketingConsent"].(map[string]interface{})["marketingState"])
		})
	}
}

func TestIntakeTextPlainBody(t *testing.T) {
	a, fake := newTestApp(t, nil)

	rec := do(a, http.MethodPost, "/api/booking", annaBianchi, echo.MIMETextPlain)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, fake.CallsTo("customerCreate"), 1)
}

func TestIntakeEmailTaken(t *testing.T) {
	a, fake := newTestApp(t, nil)
	fake.On("customerCreate", shopifytest.UserErrors("customerCreate",
		[]string{"input", "email"}, "Email has already been taken"))

	rec := do(a, http.MethodPost, "/api/booking", annaBianchi, echo.MIMEApplicationJSON)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, errs.CodeRemoteValidationFailed, body.Code)
	assert.Equal(t, []errs.FieldError{{Field: "email", Error: "Email has already been taken"}}, body.Errors)

	assert.Len(t, fake.CallsTo("customerCreate"), 1)
	assert.Empty(t, fake.CallsTo("customerSmsMarketingConsentUpdate"))
}

func TestIntakeMethodNotAllowed(t *testing.T) {
	a, fake := newTestApp(t, nil)

	rec := do(a, http.MethodGet, "/api/booking", "", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Empty(t, fake.Calls())
}

func TestIntakeOptions(t *testing.T) {
	a, fake := newTestApp(t, nil)

	for _, body := range []string{"", "{definitely not json"} {
		rec := do(a, http.MethodOptions, "/api", body, echo.MIMEApplicationJSON)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "POST,OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
		assert.Equal(t, "Content-Type", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	}
	assert.Empty(t, fake.Calls())
}

func TestIntakeMalformedBody(t *testing.T) {
	a, fake := newTestApp(t, nil)

	rec := do(a, http.MethodPost, "/api", `{"firstName":`, echo.MIMEApplicationJSON)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.CodeInvalidBody, decodeError(t, rec).Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Empty(t, fake.Calls())
}

func TestIntakeTransportFailureHidesToken(t *testing.T) {
	a, fake := newTestApp(t, nil)
	fake.On("customerCreate", shopifytest.Static(http.StatusUnauthorized,
		`{"errors":"[API] Invalid API key or access token (unrecognized login or wrong password)"}`))

	rec := do(a, http.MethodPost, "/api", annaBianchi, echo.MIMEApplicationJSON)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, errs.CodeRemoteUnavailable, body.Code)
	assert.Contains(t, body.Message, "401")
	assert.NotContains(t, rec.Body.String(), shopifytest.AccessToken)
	assert.Empty(t, fake.CallsTo("customerSmsMarketingConsentUpdate"))
}

func TestIntakePartialCompletion(t *testing.T) {
	a, fake := newTestApp(t, nil)
	fake.On("customerSmsMarketingConsentUpdate", shopifytest.Static(http.StatusBadGateway, "bad gateway"))

	rec := do(a, http.MethodPost, "/api", annaBianchi, echo.MIMEApplicationJSON)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, errs.CodePartialCompletion, body.Code)
	assert.Equal(t, shopifytest.CustomerID, body.Meta["customerId"])
	assert.Equal(t, "deleted", body.Meta["compensation"])

	deletes := fake.CallsTo("customerDelete")
	require.Len(t, deletes, 1)
	assert.Equal(t, shopifytest.CustomerID, deletes[0].Variables["input"].(map[string]interface{})["id"])
}

func TestIntakeStreamedBodyOverLimit(t *testing.T) {
	a, fake := newTestApp(t, func(c *config.Config) {
		c.Server.BodyLimit = "1K"
	})

	body := `{"firstName":"Anna","notes":"` + strings.Repeat("a", 4096) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
	assert.Equal(t, "REQUEST_ENTITY_TOO_LARGE", decodeError(t, rec).Code)
	assert.Empty(t, fake.Calls())
}

func TestIntakeSeparateMetafields(t *testing.T) {
	a, fake := newTestApp(t, func(c *config.Config) {
		c.Intake.MetafieldMode = config.MetafieldModeSeparate
	})

	rec := do(a, http.MethodPost, "/api/booking", annaBianchi, echo.MIMEApplicationJSON)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, fake.CallsTo("customerCreate")[0].Variables["input"], "metafields")
	assert.Len(t, fake.CallsTo("metafieldsSet"), 6)
}

func TestIntakeRateLimit(t *testing.T) {
	a, _ := newTestApp(t, func(c *config.Config) {
		c.Intake.RateLimitPerMinute = 2
	})

	for i := 0; i < 2; i++ {
		rec := do(a, http.MethodPost, "/api", annaBianchi, echo.MIMEApplicationJSON)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(a, http.MethodPost, "/api", annaBianchi, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, errs.CodeRateLimited, decodeError(t, rec).Code)

	// Pre-flight is answered before the limiter.
	assert.Equal(t, http.StatusOK, do(a, http.MethodOptions, "/api", "", "").Code)
}

func TestStatus(t *testing.T) {
	a, fake := newTestApp(t, nil)

	rec := do(a, http.MethodGet, "/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "healthy", report["status"])
	assert.Len(t, fake.CallsTo("shop"), 1)

	fake.On("shop", shopifytest.Static(http.StatusUnauthorized, `{"errors":"bad token"}`))
	assert.Equal(t, http.StatusServiceUnavailable, do(a, http.MethodGet, "/status", "", "").Code)
}

func TestDocsAndNotFound(t *testing.T) {
	a, _ := newTestApp(t, nil)

	rec := do(a, http.MethodGet, "/docs", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = do(a, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}
