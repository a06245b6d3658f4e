package remoteerr

import (
	"context"
	"errors"
	"strings"

	"github.com/sarabibeach/booking-intake/internal/errs"
	"github.com/sarabibeach/booking-intake/internal/shopify"
)

// HandleError converts a pipeline error into an application-level error.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - *PartialCompletionError: status of the cause, code PARTIAL_COMPLETION,
//     customer id and compensation outcome in meta
//   - *shopify.UserErrors: 400 REMOTE_VALIDATION_FAILED with field errors
//   - *shopify.TransportError or a deadline: 500 REMOTE_UNAVAILABLE with
//     diagnostic detail
//   - anything else: generic 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var partial *PartialCompletionError
	if errors.As(err, &partial) {
		return handlePartial(partial)
	}

	return handleRemote(err)
}

func handleRemote(err error) *errs.HTTPError {
	var userErrors *shopify.UserErrors
	if errors.As(err, &userErrors) {
		return errs.NewRemoteValidationError(userErrorsMessage(userErrors), fieldErrors(userErrors))
	}

	var transportErr *shopify.TransportError
	if errors.As(err, &transportErr) {
		return errs.NewRemoteUnavailableError(transportErr.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errs.NewRemoteUnavailableError("request timed out")
	}

	return errs.NewInternalServerError()
}

func handlePartial(partial *PartialCompletionError) *errs.HTTPError {
	base := handleRemote(partial.Cause)

	message := "Customer was created but " + partial.Step + " failed"
	if base.Message != "" {
		message += ": " + base.Message
	}

	out := &errs.HTTPError{
		Code:    errs.CodePartialCompletion,
		Message: message,
		Status:  base.Status,
		Errors:  base.Errors,
		Action: &errs.Action{
			Type:    errs.ActionTypeContact,
			Message: "The booking was only partially recorded",
		},
	}

	return out.
		WithMeta("customerId", partial.CustomerID).
		WithMeta("compensation", partial.Compensation)
}

func userErrorsMessage(userErrors *shopify.UserErrors) string {
	messages := make([]string, 0, len(userErrors.Errors))
	for _, ue := range userErrors.Errors {
		messages = append(messages, ue.Message)
	}
	if len(messages) == 0 {
		return "The booking was rejected"
	}
	return strings.Join(messages, "; ")
}

func fieldErrors(userErrors *shopify.UserErrors) []errs.FieldError {
	out := make([]errs.FieldError, 0, len(userErrors.Errors))
	for _, ue := range userErrors.Errors {
		out = append(out, errs.FieldError{
			Field: ue.FieldPath(),
			Error: ue.Message,
		})
	}
	return out
}
