package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected float64
	}{
		{name: "plain number string", value: "100", expected: 100},
		{name: "currency symbol", value: "$1,250.50", expected: 1250.50},
		{name: "float passthrough", value: 99.5, expected: 99.5},
		{name: "int passthrough", value: 25, expected: 25},
		{name: "negative", value: "-50", expected: -50},
		{name: "garbage", value: "free", expected: 0},
		{name: "empty string", value: "", expected: 0},
		{name: "nil", value: nil, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAmount(tt.value))
		})
	}
}

func TestNormalizeRow(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("complete row", func(t *testing.T) {
		record := NormalizeRow(RawRow{
			FieldFirstName: "Jane",
			FieldLastName:  "Doe",
			FieldAmount:    "$100",
			FieldDate:      "2024-03-15",
			FieldEmail:     "jane@example.org",
		}, now)

		require.True(t, record.Valid())
		assert.NotEmpty(t, record.Donation.ID)
		assert.Equal(t, 100.0, record.Donation.Amount)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), record.Donation.Date)
		assert.Equal(t, "March 2024", record.Donation.Month)
		assert.Equal(t, 2024, record.Donation.Year)
		assert.Equal(t, "jane@example.org", record.Email)
	})

	t.Run("each row gets a distinct donation ID", func(t *testing.T) {
		row := RawRow{FieldFirstName: "Jo", FieldLastName: "Ng", FieldAmount: "5", FieldDate: "2024-01-02"}
		first := NormalizeRow(row, now)
		second := NormalizeRow(row, now)
		assert.NotEqual(t, first.Donation.ID, second.Donation.ID)
	})
}

func TestNormalizeRowsRejection(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	rows := []RawRow{
		{"first_name": "Jane", "last_name": "Doe", "amount": "100", "date": "2024-03-15"},
		{"first_name": "", "last_name": "Doe", "amount": "100", "date": "2024-03-15"},
		{"first_name": "Jane", "last_name": "", "amount": "100", "date": "2024-03-15"},
		{"first_name": "Bob", "last_name": "Lee", "amount": "0", "date": "2024-03-15"},
		{"first_name": "Ann", "last_name": "Wu", "amount": "-5", "date": "2024-03-15"},
	}

	records := NormalizeRows(rows, now)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane", records[0].FirstName)
}
