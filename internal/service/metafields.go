package service

import (
	"strconv"
	"strings"

	"github.com/sarabibeach/booking-intake/internal/lib/utils"
	"github.com/sarabibeach/booking-intake/internal/model"
	"github.com/sarabibeach/booking-intake/internal/shopify"
)

// Metafield types used by the booking table.
const (
	TypeSingleLine    = "single_line_text_field"
	TypeMultiLine     = "multi_line_text_field"
	TypeDate          = "date"
	TypeNumberInteger = "number_integer"
)

// MetafieldMapping maps one booking field onto one customer metafield.
//
// Value extracts and normalizes the field. An empty value is not sent.
type MetafieldMapping struct {
	Key   string
	Type  string
	Value func(r *model.BookingRequest) string
}

// BookingMetafields is the field table shared by every booking form.
// Forms that do not send a field simply produce no metafield for it.
var BookingMetafields = []MetafieldMapping{
	{
		Key:  "birthday",
		Type: TypeDate,
		Value: func(r *model.BookingRequest) string {
			return utils.NormalizeDate(r.BirthdateValue())
		},
	},
	{
		Key:   "service",
		Type:  TypeSingleLine,
		Value: func(r *model.BookingRequest) string { return r.Service },
	},
	{
		Key:  "date_request",
		Type: TypeDate,
		Value: func(r *model.BookingRequest) string {
			return utils.NormalizeDate(r.DateRequest)
		},
	},
	{
		Key:   "time_request",
		Type:  TypeSingleLine,
		Value: func(r *model.BookingRequest) string { return r.TimeRequest },
	},
	{
		Key:  "participants",
		Type: TypeNumberInteger,
		Value: func(r *model.BookingRequest) string {
			v, _ := r.ParticipantsString()
			return v
		},
	},
	{
		Key:   "notes",
		Type:  TypeMultiLine,
		Value: func(r *model.BookingRequest) string { return r.Notes },
	},
}

// BuildMetafields evaluates mappings against req under namespace.
//
// Typed values that do not fit their type (a date that is not ISO after
// normalization, participants that are not an integer) are sent as single
// line text so the booking detail is kept instead of rejected.
func BuildMetafields(namespace string, mappings []MetafieldMapping, req *model.BookingRequest) []shopify.Metafield {
	out := make([]shopify.Metafield, 0, len(mappings))

	for _, m := range mappings {
		value := strings.TrimSpace(m.Value(req))
		if value == "" {
			continue
		}

		out = append(out, shopify.Metafield{
			Namespace: namespace,
			Key:       m.Key,
			Type:      fitType(m.Type, value),
			Value:     value,
		})
	}

	return out
}

func fitType(typ, value string) string {
	switch typ {
	case TypeDate:
		if !utils.IsISODate(value) {
			return TypeSingleLine
		}
	case TypeNumberInteger:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return TypeSingleLine
		}
	}
	return typ
}

// BuildCustomerInput maps the booking onto the create-customer input.
// metafields are attached inline; pass nil when they are sent separately.
func BuildCustomerInput(req *model.BookingRequest, metafields []shopify.Metafield) shopify.CustomerInput {
	consent := shopify.ConsentFor(req.ConsentValue())

	return shopify.CustomerInput{
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		Email:                 strings.TrimSpace(req.Email),
		Phone:                 utils.NormalizePhone(req.Phone),
		EmailMarketingConsent: &consent,
		Metafields:            metafields,
	}
}
