package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateRouter(origin string, reached *int) *echo.Echo {
	e := echo.New()
	e.Any("/api", func(c echo.Context) error {
		*reached++
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}, NewGateMiddleware(origin).Gate())
	return e
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder, origin string) {
	t.Helper()
	assert.Equal(t, origin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "POST,OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "Content-Type", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
}

func TestGateOptions(t *testing.T) {
	for _, body := range []string{"", "{not json", `{"firstName":"Anna"}`} {
		t.Run(body, func(t *testing.T) {
			reached := 0
			e := newGateRouter("", &reached)

			req := httptest.NewRequest(http.MethodOptions, "/api", strings.NewReader(body))
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Body.String())
			assertCORS(t, rec, "*")
			assert.Zero(t, reached)
		})
	}
}

func TestGateRejectsOtherMethods(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			reached := 0
			e := newGateRouter("https://sarabibeach.com", &reached)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(method, "/api", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "Method Not Allowed", rec.Body.String())
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/plain")
			assertCORS(t, rec, "https://sarabibeach.com")
			assert.Zero(t, reached)
		})
	}
}

func TestGatePassesPost(t *testing.T) {
	reached := 0
	e := newGateRouter("", &reached)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, reached)
	assertCORS(t, rec, "*")
}
