package remoteerr

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarabibeach/booking-intake/internal/errs"
	"github.com/sarabibeach/booking-intake/internal/shopify"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorUserErrors(t *testing.T) {
	err := errors.Wrap(&shopify.UserErrors{
		Op: "customerCreate",
		Errors: []shopify.UserError{
			{Field: []string{"input", "email"}, Message: "Email has already been taken"},
		},
	}, "create customer")

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, errs.CodeRemoteValidationFailed, httpErr.Code)
	assert.Equal(t, "Email has already been taken", httpErr.Message)
	assert.Equal(t, []errs.FieldError{{Field: "email", Error: "Email has already been taken"}}, httpErr.Errors)
	assert.True(t, IsSemantic(err))
	assert.False(t, IsTransport(err))
}

func TestHandleErrorTransport(t *testing.T) {
	err := &shopify.TransportError{Op: "customerCreate", StatusCode: 502, Detail: "bad gateway"}

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, errs.CodeRemoteUnavailable, httpErr.Code)
	assert.Contains(t, httpErr.Message, "status 502")
	assert.Contains(t, httpErr.Message, "bad gateway")
	assert.True(t, IsTransport(err))
}

func TestHandleErrorDeadline(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(fmt.Errorf("consent: %w", context.DeadlineExceeded)))

	assert.Equal(t, errs.CodeRemoteUnavailable, httpErr.Code)
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	in := errs.NewNotFoundError("Route not found", false, nil)

	assert.Same(t, in, HandleError(in))
}

func TestHandleErrorUnknownIsGeneric(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("pq: secret internal detail")))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.NotContains(t, httpErr.Message, "secret")
}

func TestHandleErrorPartialCompletion(t *testing.T) {
	tests := []struct {
		name       string
		cause      error
		wantStatus int
	}{
		{
			name: "semantic cause",
			cause: &shopify.UserErrors{Op: "customerSmsMarketingConsentUpdate", Errors: []shopify.UserError{
				{Field: []string{"input", "phone"}, Message: "Phone is invalid"},
			}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "transport cause",
			cause:      &shopify.TransportError{Op: "customerSmsMarketingConsentUpdate", Detail: "request timed out"},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &PartialCompletionError{
				CustomerID:   "gid://shopify/Customer/7001",
				Step:         "consent update",
				Compensation: CompensationDeleted,
				Cause:        tt.cause,
			}

			httpErr := asHTTPError(t, HandleError(err))

			assert.Equal(t, tt.wantStatus, httpErr.Status)
			assert.Equal(t, errs.CodePartialCompletion, httpErr.Code)
			assert.Equal(t, "gid://shopify/Customer/7001", httpErr.Meta["customerId"])
			assert.Equal(t, CompensationDeleted, httpErr.Meta["compensation"])
			require.NotNil(t, httpErr.Action)
			assert.Equal(t, errs.ActionTypeContact, httpErr.Action.Type)
		})
	}
}
