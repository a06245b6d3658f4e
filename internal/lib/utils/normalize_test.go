package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+39 333 1234567", "+393331234567"},
		{"(0039) 333-123.4567", "+00393331234567"},
		{"3331234567", "+3331234567"},
		{"+393331234567", "+393331234567"},
		{"", ""},
		{"n/a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizePhone(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizePhone(got), "normalization must be idempotent")
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"25/12/2024", "2024-12-25"},
		{"25-12-2024", "2024-12-25"},
		{"25.12.2024", "2024-12-25"},
		{"5/1/2024", "2024-01-05"},
		{"2024-12-25", "2024-12-25"},
		{" 2024-12-25 ", "2024-12-25"},
		{"25/12-2024", "25/12-2024"},
		{"December 25", "December 25"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeDate(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeDate(got))
		})
	}
}

func TestIsISODate(t *testing.T) {
	assert.True(t, IsISODate("2024-12-25"))
	assert.False(t, IsISODate("25/12/2024"))
	assert.False(t, IsISODate("2024-12-25T10:00:00Z"))
}
