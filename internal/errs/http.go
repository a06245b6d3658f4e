package errs

import (
	"net/http"
)

// Application error codes that are not derived from HTTP status text.
const (
	CodeInvalidBody            = "INVALID_BODY"
	CodeRemoteValidationFailed = "REMOTE_VALIDATION_FAILED"
	CodeRemoteUnavailable      = "REMOTE_UNAVAILABLE"
	CodePartialCompletion      = "PARTIAL_COMPLETION"
	CodeRateLimited            = "RATE_LIMITED"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors
//   - action: optional client instruction
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed HTTPError.
//
// The intake route answers 405 in plain text from the request gate; this
// constructor covers the remaining routes through the global error handler.
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusMethodNotAllowed)),
		Message: http.StatusText(http.StatusMethodNotAllowed),
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewTooManyRequestsError creates a 429 HTTPError for the rate limiter.
func NewTooManyRequestsError() *HTTPError {
	return &HTTPError{
		Code:    CodeRateLimited,
		Message: "Too many submissions, try again later",
		Status:  http.StatusTooManyRequests,
		Action: &Action{
			Type:    ActionTypeRetry,
			Message: "Wait a minute before submitting again",
		},
	}
}

// NewRemoteValidationError creates the 400 returned when the remote platform
// rejected the submitted data (userErrors).
func NewRemoteValidationError(message string, errors []FieldError) *HTTPError {
	code := CodeRemoteValidationFailed
	return NewBadRequestError(message, false, &code, errors, nil)
}

// NewRemoteUnavailableError creates the 500 returned when the remote platform
// could not be reached or answered outside its contract. The message is
// diagnostic detail and must never contain credentials.
func NewRemoteUnavailableError(message string) *HTTPError {
	return &HTTPError{
		Code:    CodeRemoteUnavailable,
		Message: message,
		Status:  http.StatusInternalServerError,
		Action: &Action{
			Type:    ActionTypeRetry,
			Message: "The booking system is temporarily unavailable",
		},
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the internal error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}
