package dataprocessing

import (
	"strings"
	"time"
)

// dateLayouts is the ordered list of accepted explicit date formats:
// ISO first, then US and EU numeric variants, then textual months.
// Padded and unpadded forms are both listed because real exports mix
// "01/05/2024" and "1/5/2024" freely.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2006/01/02",
	"01-02-2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// genericLayouts are the fallback formats tried after the fixed list,
// covering timestamp-style values that occasionally show up in exports.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC1123,
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// ParseDonationDate attempts the fixed layout list against a date
// string, then the generic fallbacks. Returns the zero time and false
// when nothing matches.
func ParseDonationDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseMonth resolves a month cell to its 1-based month number. String
// values match on name prefix, so "Jan", "january" and "JANU" all
// resolve to 1; numeric values pass through when in range.
func ParseMonth(value interface{}) (time.Month, bool) {
	switch v := value.(type) {
	case float64:
		if v >= 1 && v <= 12 {
			return time.Month(int(v)), true
		}
	case int:
		if v >= 1 && v <= 12 {
			return time.Month(v), true
		}
	case string:
		normalized := strings.ToLower(strings.TrimSpace(v))
		if normalized == "" {
			return 0, false
		}
		for i, name := range monthNames {
			if strings.HasPrefix(name, normalized) {
				return time.Month(i + 1), true
			}
		}
	}
	return 0, false
}

// ResolveDate establishes a donation date from the mapped date and
// month fields. An explicit date field wins when it parses; otherwise a
// resolvable month field synthesizes day 1 of that month in now's year;
// otherwise now itself is used. The fallback is deliberately
// permissive: rows without any temporal signal still produce a date,
// and invalid rows are dropped by the validity checks on name and
// amount instead.
func ResolveDate(dateValue, monthValue interface{}, now time.Time) time.Time {
	if dateValue != nil {
		if t, ok := ParseDonationDate(stringValue(dateValue)); ok {
			return t
		}
	}
	if monthValue != nil {
		if m, ok := ParseMonth(monthValue); ok {
			return time.Date(now.Year(), m, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return now
}
