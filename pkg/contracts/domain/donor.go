package domain

import (
	"sort"
	"time"
)

// FrequencyTier classifies a donor by lifetime donation count.
type FrequencyTier string

const (
	FrequencyOneTime    FrequencyTier = "one-time"
	FrequencyOccasional FrequencyTier = "occasional"
	FrequencyRegular    FrequencyTier = "regular"
	FrequencyFrequent   FrequencyTier = "frequent"
)

// FrequencyForCount maps a lifetime donation count to its tier.
// The tier is a pure step function of count: 1 is one-time, 2-3
// occasional, 4-6 regular, 7 and above frequent.
func FrequencyForCount(count int) FrequencyTier {
	switch {
	case count <= 1:
		return FrequencyOneTime
	case count <= 3:
		return FrequencyOccasional
	case count <= 6:
		return FrequencyRegular
	default:
		return FrequencyFrequent
	}
}

// Donor is the aggregate of one natural person's donations.
//
// Invariants maintained by aggregation and merge:
//   - TotalAmount equals the sum of owned donation amounts
//   - DonationCount equals len(Donations), and is always >= 1 since a
//     donor is only ever created from at least one donation
//   - AverageDonation equals TotalAmount / DonationCount
//   - FirstDonation / LastDonation are the min/max donation dates
//   - Frequency is FrequencyForCount(DonationCount)
type Donor struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	// Donations is the exclusively owned transaction list. A donation
	// belongs to exactly one donor.
	Donations []Donation `json:"donations" validate:"min=1"`

	TotalAmount     float64       `json:"total_amount"`
	DonationCount   int           `json:"donation_count" validate:"min=1"`
	AverageDonation float64       `json:"average_donation"`
	FirstDonation   time.Time     `json:"first_donation"`
	LastDonation    time.Time     `json:"last_donation"`
	Frequency       FrequencyTier `json:"frequency"`
}

// Key returns the donor's identity key.
func (d *Donor) Key() string {
	return IdentityKey(d.FirstName, d.LastName)
}

// Recalculate recomputes every derived metric from the owned donation
// list. The recomputation is total, not incremental, so repeated merges
// cannot drift. Donations are sorted by date ascending as a side effect.
// A donor with no donations cannot occur by construction, so the empty
// case is a no-op rather than an error.
func (d *Donor) Recalculate() {
	if len(d.Donations) == 0 {
		return
	}

	sort.Slice(d.Donations, func(i, j int) bool {
		return d.Donations[i].Date.Before(d.Donations[j].Date)
	})

	var total float64
	for _, dn := range d.Donations {
		total += dn.Amount
	}

	d.TotalAmount = total
	d.DonationCount = len(d.Donations)
	d.AverageDonation = total / float64(len(d.Donations))
	d.FirstDonation = d.Donations[0].Date
	d.LastDonation = d.Donations[len(d.Donations)-1].Date
	d.Frequency = FrequencyForCount(len(d.Donations))
}

// Clone returns a deep copy of the donor, including its donation list.
// Merge operates on clones so callers' snapshots are never mutated.
func (d *Donor) Clone() *Donor {
	out := *d
	out.Donations = make([]Donation, len(d.Donations))
	copy(out.Donations, d.Donations)
	return &out
}
