package dataprocessing

import (
	"regexp"
	"strings"
)

// Canonical field names produced by MapFields.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldAmount    = "amount"
	FieldDate      = "date"
	FieldMonth     = "month"
	FieldEmail     = "email"
	FieldPhone     = "phone"
)

// RawRow is one decoded spreadsheet row: observed column header to
// cell value. Values are strings for CSV input and string or float64
// for Excel input.
type RawRow map[string]interface{}

// fieldAliases maps each canonical field to its known header aliases,
// in priority order. The first alias present in the normalized row
// wins; headers matching no alias are ignored.
var fieldAliases = map[string][]string{
	FieldFirstName: {"first_name", "firstname", "fname", "first", "given_name"},
	FieldLastName:  {"last_name", "lastname", "lname", "last", "surname", "family_name"},
	FieldAmount:    {"amount", "donation", "gift", "contribution", "value", "total"},
	FieldDate:      {"date", "donation_date", "gift_date", "received_date", "timestamp"},
	FieldMonth:     {"month", "donation_month", "gift_month"},
	FieldEmail:     {"email", "email_address", "e_mail"},
	FieldPhone:     {"phone", "phone_number", "telephone", "mobile"},
}

// mapOrder fixes the iteration order over fieldAliases so mapping is
// deterministic regardless of map iteration.
var mapOrder = []string{
	FieldFirstName, FieldLastName, FieldAmount,
	FieldDate, FieldMonth, FieldEmail, FieldPhone,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeHeader lowercases a column header and collapses whitespace
// runs to single underscores, so "First Name", "first  name" and
// "FIRST_NAME" all normalize to "first_name".
func NormalizeHeader(header string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "_")
}

// MapFields maps a raw row's observed headers to canonical field names.
// Fields with no matching alias are simply absent from the result; that
// is not an error. The input row is not modified.
func MapFields(row RawRow) RawRow {
	normalized := make(RawRow, len(row))
	for key, value := range row {
		normalized[NormalizeHeader(key)] = value
	}

	mapped := make(RawRow)
	for _, field := range mapOrder {
		for _, alias := range fieldAliases[field] {
			if value, ok := normalized[alias]; ok {
				mapped[field] = value
				break
			}
		}
	}
	return mapped
}
