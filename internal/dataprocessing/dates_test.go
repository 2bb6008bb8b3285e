package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDonationDate(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Time
		ok       bool
	}{
		{name: "ISO", value: "2024-03-15", expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "US padded", value: "03/15/2024", expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "US unpadded", value: "3/5/2024", expected: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "textual short", value: "Mar 15, 2024", expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "textual long", value: "March 15, 2024", expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "timestamp fallback", value: "2024-03-15 10:30:00", expected: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), ok: true},
		{name: "surrounding whitespace", value: "  2024-03-15 ", expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "empty", value: "", ok: false},
		{name: "garbage", value: "not a date", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDonationDate(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected time.Month
		ok       bool
	}{
		{name: "full name", value: "January", expected: time.January, ok: true},
		{name: "abbreviation", value: "jan", expected: time.January, ok: true},
		{name: "prefix match", value: "SEPT", expected: time.September, ok: true},
		{name: "numeric string is not a month name", value: "3", ok: false},
		{name: "int in range", value: 12, expected: time.December, ok: true},
		{name: "float from excel", value: float64(7), expected: time.July, ok: true},
		{name: "int out of range", value: 13, ok: false},
		{name: "empty string", value: "", ok: false},
		{name: "nil", value: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMonth(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("explicit date wins", func(t *testing.T) {
		got := ResolveDate("2024-03-15", "December", now)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("month synthesizes first of month in current year", func(t *testing.T) {
		got := ResolveDate(nil, "March", now)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("unparsable date falls through to month", func(t *testing.T) {
		got := ResolveDate("soon", "feb", now)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("no temporal signal falls back to now", func(t *testing.T) {
		got := ResolveDate(nil, nil, now)
		assert.Equal(t, now, got)
	})
}
