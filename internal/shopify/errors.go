package shopify

import (
	"fmt"
	"strings"
)

// TransportError is a failure below the level of the operation's semantics:
// the request could not be sent, the deadline passed, the status was not
// 2xx, the body could not be decoded, or GraphQL reported top-level errors
// (throttling, malformed query, access scopes).
type TransportError struct {
	// Op is the GraphQL operation name, e.g. "customerCreate".
	Op string

	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int

	// Detail is diagnostic text safe to show to a client: upstream status,
	// GraphQL error messages, or a trimmed response snippet. It never
	// contains the access token.
	Detail string

	Err error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("shopify ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "status %d: ", e.StatusCode)
	}
	b.WriteString(e.Detail)
	if e.Err != nil && e.Detail == "" {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserError is one entry of a mutation's userErrors list.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

// FieldPath joins the field path the way the client form names it:
// ["input", "email"] -> "email".
func (e UserError) FieldPath() string {
	path := e.Field
	if len(path) > 0 && path[0] == "input" {
		path = path[1:]
	}
	return strings.Join(path, ".")
}

// UserErrors is a semantic failure: the response was structurally valid but
// the platform rejected the data.
type UserErrors struct {
	Op     string
	Errors []UserError
}

func (e *UserErrors) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		messages = append(messages, ue.Message)
	}
	return fmt.Sprintf("shopify %s: %s", e.Op, strings.Join(messages, "; "))
}

// checkUserErrors turns a non-empty userErrors list into *UserErrors.
func checkUserErrors(op string, userErrors []UserError) error {
	if len(userErrors) == 0 {
		return nil
	}
	return &UserErrors{Op: op, Errors: userErrors}
}
