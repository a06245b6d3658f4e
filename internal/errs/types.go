package errs

import "strings"

// FieldError represents a field-level error, either from request validation
// or from the remote platform's userErrors.
//
//	{ "field": "email", "error": "Email has already been taken" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRetry tells the client the submission may be retried as is.
	ActionTypeRetry ActionType = "retry"

	// ActionTypeContact tells the client to reach the shop by other means;
	// the submission reached the remote platform only partially.
	ActionTypeContact ActionType = "contact"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type every failed intake response is rendered from.
//
// It implements the `error` interface via Error() and is serialized directly
// to JSON. Success is always false; it is part of the body contract shared
// with successful responses ({"success": true, "id": ...}).
type HTTPError struct {
	Success  bool   `json:"success"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level errors (request validation or remote userErrors).
	Errors []FieldError `json:"errors,omitempty"`

	// Action is an optional client instruction.
	Action *Action `json:"action,omitempty"`

	// Meta carries diagnostic identifiers, e.g. the id of a customer that
	// was created before a later step failed.
	Meta map[string]string `json:"meta,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError. Code and Status are not compared.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
		Meta:     e.Meta,
	}
}

// WithMeta returns a copy of this HTTPError with key set in Meta.
func (e *HTTPError) WithMeta(key, value string) *HTTPError {
	meta := make(map[string]string, len(e.Meta)+1)
	for k, v := range e.Meta {
		meta[k] = v
	}
	meta[key] = value

	cp := e.WithMessage(e.Message)
	cp.Meta = meta

	return cp
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
