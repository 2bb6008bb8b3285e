package dataprocessing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"donorpulse/pkg/contracts/domain"
)

// Record is a normalized donation candidate. It carries the donor name
// and contact fields alongside the donation itself; aggregation strips
// them off once the owning donor exists.
type Record struct {
	Donation  domain.Donation
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Valid implements the row rejection rule: a record is kept only when
// both name parts are present, the amount is positive, and a date was
// established. Rejected rows are excluded from the output set without
// individual reporting.
func (r Record) Valid() bool {
	return r.FirstName != "" && r.LastName != "" && r.Donation.Amount > 0 && !r.Donation.Date.IsZero()
}

var amountJunk = regexp.MustCompile(`[^0-9.\-]`)

// ParseAmount converts an amount cell to a float. Numeric cells pass
// through; strings are stripped of currency symbols, separators and
// other junk before parsing. Unparsable values become 0, which the
// validity check then rejects.
func ParseAmount(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		cleaned := amountJunk.ReplaceAllString(v, "")
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// stringValue renders a cell as a trimmed string. Excel decoding can
// hand back floats for numeric-looking cells, so those are formatted
// without a trailing ".0" when integral.
func stringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// NormalizeRow converts a field-mapped row into a donation candidate.
// The caller supplies now for the permissive date fallback so batch
// runs are reproducible. Use Record.Valid to decide whether the row
// survives.
func NormalizeRow(mapped RawRow, now time.Time) Record {
	date := ResolveDate(mapped[FieldDate], mapped[FieldMonth], now)

	return Record{
		Donation: domain.Donation{
			ID:     uuid.NewString(),
			Amount: ParseAmount(mapped[FieldAmount]),
			Date:   date,
			Month:  domain.MonthLabel(date),
			Year:   date.Year(),
		},
		FirstName: stringValue(mapped[FieldFirstName]),
		LastName:  stringValue(mapped[FieldLastName]),
		Email:     stringValue(mapped[FieldEmail]),
		Phone:     stringValue(mapped[FieldPhone]),
	}
}

// NormalizeRows maps and normalizes a batch of raw rows, returning the
// surviving records. Row-level failures only shrink the result; they
// are never surfaced per row.
func NormalizeRows(rows []RawRow, now time.Time) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record := NormalizeRow(MapFields(row), now)
		if record.Valid() {
			records = append(records, record)
		}
	}
	return records
}
