package domain

import (
	"strings"
	"time"
)

// Donation represents a single normalized donation transaction.
// A Donation is immutable once produced by normalization, with one
// exception: DonorID is back-filled during donor aggregation, when the
// owning Donor is created and its identifier becomes known.
type Donation struct {
	// ID uniquely identifies the donation. Generated at normalization
	// time; re-imports of the same source row produce a fresh ID, which
	// is why merge deduplication also matches on (date, amount).
	ID string `json:"id" validate:"required"`

	// DonorID is a back-reference to the owning donor. Empty until
	// aggregation assigns the donation to a donor.
	DonorID string `json:"donor_id"`

	// Amount is the donated amount. Always positive for a donation that
	// survived normalization.
	Amount float64 `json:"amount" validate:"gt=0"`

	// Date is the donation timestamp.
	Date time.Time `json:"date" validate:"required"`

	// Month is the human-readable month label derived from Date,
	// e.g. "January 2024". Display-only; analytics sort on Date.
	Month string `json:"month"`

	// Year is the calendar year derived from Date.
	Year int `json:"year"`
}

// SameTransaction reports whether two donations describe the same
// real-world transaction: either an exact identifier match, or an exact
// (date, amount) match. The second layer guards against re-imports that
// regenerate identifiers but repeat the same rows.
func (d Donation) SameTransaction(other Donation) bool {
	if d.ID == other.ID {
		return true
	}
	return d.Date.Equal(other.Date) && d.Amount == other.Amount
}

// MonthLabel formats a time as the donation month label.
func MonthLabel(t time.Time) string {
	return t.Format("January 2006")
}

// IdentityKey derives the donor identity key from a name pair: the
// case-insensitive, trimmed "first_last" concatenation. Two donors with
// the same key are treated as the same person for merge purposes. This
// is a heuristic; distinct people sharing a name will collapse into one
// donor, an accepted limitation of name-only source data.
func IdentityKey(firstName, lastName string) string {
	return strings.ToLower(strings.TrimSpace(firstName)) + "_" + strings.ToLower(strings.TrimSpace(lastName))
}
