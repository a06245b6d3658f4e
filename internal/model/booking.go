// Package model holds the request-scoped values of the intake pipeline.
package model

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/sarabibeach/booking-intake/internal/validation"
)

var validate = newValidator()

// newValidator reports fields by their JSON names so errors match the form.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// BookingRequest is the booking/signup form submission.
//
// The field set is the superset of every form that posts to the intake.
// Missing optional fields decode to their zero value. Participants and
// ConsentMarketing are loosely typed because forms send them either as JSON
// scalars or as strings.
type BookingRequest struct {
	FirstName        string      `json:"firstName" validate:"max=255"`
	LastName         string      `json:"lastName" validate:"max=255"`
	Email            string      `json:"email" validate:"max=320"`
	Phone            string      `json:"phone" validate:"max=64"`
	Birthdate        string      `json:"birthdate" validate:"max=32"`
	Birthday         string      `json:"birthday" validate:"max=32"`
	Service          string      `json:"service" validate:"max=255"`
	DateRequest      string      `json:"dateRequest" validate:"max=32"`
	TimeRequest      string      `json:"timeRequest" validate:"max=32"`
	Participants     interface{} `json:"participants"`
	Notes            string      `json:"notes" validate:"max=5000"`
	ConsentMarketing interface{} `json:"consentMarketing"`
}

// Validate checks field lengths and that the loosely typed fields can be
// coerced. Presence and format are left to the remote platform.
func (r *BookingRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}

	var custom validation.CustomValidationErrors
	if _, err := r.ParticipantsString(); err != nil {
		custom = append(custom, validation.CustomValidationError{
			Field:   "participants",
			Message: "must be a number or a string",
		})
	}
	if _, err := r.Consent(); err != nil {
		custom = append(custom, validation.CustomValidationError{
			Field:   "consentMarketing",
			Message: "must be a boolean",
		})
	}
	if len(custom) > 0 {
		return custom
	}

	return nil
}

// BirthdateValue returns birthdate, falling back to birthday.
func (r *BookingRequest) BirthdateValue() string {
	if strings.TrimSpace(r.Birthdate) != "" {
		return r.Birthdate
	}
	return r.Birthday
}

// ParticipantsString renders participants as a display string.
// JSON numbers decode as float64; whole numbers render without decimals.
func (r *BookingRequest) ParticipantsString() (string, error) {
	switch v := r.Participants.(type) {
	case nil:
		return "", nil
	case float64:
		if v == float64(int64(v)) {
			return cast.ToString(int64(v)), nil
		}
		return cast.ToString(v), nil
	case string:
		return strings.TrimSpace(v), nil
	case bool:
		return "", fmt.Errorf("participants: unexpected boolean")
	}

	return cast.ToStringE(r.Participants)
}

// Consent reports the marketing consent flag.
//
// Accepted: JSON booleans, numbers (non-zero is true) and the strings
// understood by strconv.ParseBool plus "on"/"yes"/"off"/"no" (HTML checkbox
// values). A missing value is false.
func (r *BookingRequest) Consent() (bool, error) {
	switch v := r.ConsentMarketing.(type) {
	case nil:
		return false, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			return false, nil
		case "on", "yes", "y":
			return true, nil
		case "off", "no", "n":
			return false, nil
		}
	case map[string]interface{}, []interface{}:
		return false, fmt.Errorf("consentMarketing: unexpected %T", v)
	}

	return cast.ToBoolE(r.ConsentMarketing)
}

// ConsentValue is Consent with coercion failures treated as "no consent".
// Validate rejects those requests before the pipeline runs.
func (r *BookingRequest) ConsentValue() bool {
	ok, err := r.Consent()
	return err == nil && ok
}
