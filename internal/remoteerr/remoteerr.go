// Package remoteerr classifies failures of the remote customer platform and
// converts them into client-facing errors.
//
// It is the counterpart of a database error mapper for a system whose only
// backend is a third-party API: semantic rejections become 400s with field
// errors, transport failures become 500s with diagnostic detail, and a
// partially completed intake keeps the id of the customer it left behind.
package remoteerr

import (
	"errors"
	"fmt"

	"github.com/sarabibeach/booking-intake/internal/shopify"
)

// Compensation outcomes reported with a PartialCompletionError.
const (
	CompensationDeleted = "deleted"
	CompensationTagged  = "tagged"
	CompensationSkipped = "skipped"
	CompensationFailed  = "failed"
)

// PartialCompletionError reports that the customer was created upstream but
// a dependent step (consent update, metafield attachment) failed.
//
// The customer is not rolled back transactionally. Compensation records what
// was done about it afterwards.
type PartialCompletionError struct {
	CustomerID   string
	Step         string
	Compensation string
	Cause        error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("customer %s created but %s failed (compensation: %s): %v",
		e.CustomerID, e.Step, e.Compensation, e.Cause)
}

func (e *PartialCompletionError) Unwrap() error {
	return e.Cause
}

// IsSemantic reports whether err is (or wraps) a remote userErrors rejection.
func IsSemantic(err error) bool {
	var ue *shopify.UserErrors
	return errors.As(err, &ue)
}

// IsTransport reports whether err is (or wraps) a remote transport failure.
func IsTransport(err error) bool {
	var te *shopify.TransportError
	return errors.As(err, &te)
}
