package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarabibeach/booking-intake/internal/errs"
)

type samplePayload struct {
	Name string `json:"name"`
}

func (p *samplePayload) Validate() error {
	if p.Name == "invalid" {
		return CustomValidationErrors{{Field: "name", Message: "is not allowed"}}
	}
	return nil
}

func newContext(body, contentType string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateIgnoresContentType(t *testing.T) {
	for _, ct := range []string{echo.MIMEApplicationJSON, echo.MIMETextPlain, ""} {
		t.Run(ct, func(t *testing.T) {
			p := &samplePayload{}
			require.NoError(t, BindAndValidate(newContext(`{"name":"Anna"}`, ct), p))
			assert.Equal(t, "Anna", p.Name)
		})
	}
}

func TestBindAndValidateParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "empty", body: "", wantMessage: "Request body is empty"},
		{name: "malformed", body: `{"name":`},
		{name: "not an object", body: `["Anna"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BindAndValidate(newContext(tt.body, echo.MIMETextPlain), &samplePayload{})

			var httpErr *errs.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
			assert.Equal(t, errs.CodeInvalidBody, httpErr.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, httpErr.Message)
			}
		})
	}
}

func TestBindAndValidateValidationErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":"invalid"}`, ""), &samplePayload{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "BAD_REQUEST", httpErr.Code)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is not allowed"}}, httpErr.Errors)
}

func TestBindAndValidateStreamedBodyOverLimit(t *testing.T) {
	c := newContext(`{"name":"`+strings.Repeat("a", 4096)+`"}`, echo.MIMEApplicationJSON)
	// Unknown length: the limit is only hit while decoding.
	c.Request().ContentLength = -1

	h := middleware.BodyLimit("1K")(func(c echo.Context) error {
		return BindAndValidate(c, &samplePayload{})
	})

	err := h(c)

	var echoErr *echo.HTTPError
	require.True(t, errors.As(err, &echoErr), "got %v", err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, echoErr.Code)

	var httpErr *errs.HTTPError
	assert.False(t, errors.As(err, &httpErr))
}
