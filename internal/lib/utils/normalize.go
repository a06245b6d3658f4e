package utils

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// NormalizePhone strips every non-digit character and prefixes "+".
//
//	"+39 333 1234567" -> "+393331234567"
//
// A value without digits normalizes to "" so it can be omitted upstream.
// NormalizePhone(NormalizePhone(x)) == NormalizePhone(x) for every x.
func NormalizePhone(phone string) string {
	digits := nonDigit.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}
	return "+" + digits
}

var (
	isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// Day first, any of "/", "-" or "." as delimiter, delimiters must match.
	dayFirstDate = regexp.MustCompile(`^(\d{1,2})([/.\-])(\d{1,2})([/.\-])(\d{4})$`)
)

// NormalizeDate converts a day-first date to YYYY-MM-DD.
//
//	"25/12/2024" -> "2024-12-25"
//	"2024-12-25" -> "2024-12-25"
//
// Values in any other shape are returned trimmed but otherwise unchanged.
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || isoDate.MatchString(value) {
		return value
	}

	m := dayFirstDate.FindStringSubmatch(value)
	if m == nil || m[2] != m[4] {
		return value
	}

	return m[5] + "-" + pad2(m[3]) + "-" + pad2(m[1])
}

// IsISODate reports whether value is shaped YYYY-MM-DD.
func IsISODate(value string) bool {
	return isoDate.MatchString(value)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
