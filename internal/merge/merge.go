// Package merge combines freshly aggregated donor batches with an
// existing donor set without double-counting re-uploaded donations.
package merge

import (
	"sort"

	"donorpulse/pkg/contracts/domain"
)

// Result is the merged snapshot plus bookkeeping counters.
type Result struct {
	// Donors is the merged donor set, sorted by identity key.
	Donors []*domain.Donor

	// DonationsAdded counts incoming donations that survived duplicate
	// suppression.
	DonationsAdded int

	// DuplicatesSuppressed counts incoming donations dropped as
	// duplicates of existing ones.
	DuplicatesSuppressed int
}

// Merge combines an incoming donor batch with an existing donor set and
// returns a new merged snapshot. Neither input is mutated, so the
// operation is trivially retryable: callers keep their snapshots and
// swap in the result on success.
//
// For each incoming donor, identity resolution is by donor key. Unknown
// keys insert the donor wholesale. Known keys merge: duplicate
// donations are suppressed first by exact identifier match, then by an
// exact (date, amount) match against the existing donations, which
// catches re-imports that regenerated identifiers. Survivors are
// appended and every derived metric is recomputed from the combined,
// date-sorted donation list. Contact fields back-fill only into empty
// slots; existing values are never overwritten.
//
// Merge never fails. Re-uploading the same file is a no-op, and
// uploading two files in either order yields the same grand totals,
// modulo the name-collision heuristic of the identity key.
func Merge(existing, incoming []*domain.Donor) Result {
	byKey := make(map[string]*domain.Donor, len(existing))
	for _, donor := range existing {
		byKey[donor.Key()] = donor.Clone()
	}

	result := Result{}

	for _, inc := range incoming {
		key := inc.Key()
		current, ok := byKey[key]
		if !ok {
			byKey[key] = inc.Clone()
			result.DonationsAdded += len(inc.Donations)
			continue
		}

		existingIDs := make(map[string]struct{}, len(current.Donations))
		for _, dn := range current.Donations {
			existingIDs[dn.ID] = struct{}{}
		}

		appended := false
		for _, candidate := range inc.Donations {
			if _, dup := existingIDs[candidate.ID]; dup {
				result.DuplicatesSuppressed++
				continue
			}
			if matchesExistingTransaction(current.Donations, candidate) {
				result.DuplicatesSuppressed++
				continue
			}

			candidate.DonorID = current.ID
			current.Donations = append(current.Donations, candidate)
			existingIDs[candidate.ID] = struct{}{}
			result.DonationsAdded++
			appended = true
		}

		if appended {
			current.Recalculate()
		}

		if current.Email == "" && inc.Email != "" {
			current.Email = inc.Email
		}
		if current.Phone == "" && inc.Phone != "" {
			current.Phone = inc.Phone
		}
	}

	donors := make([]*domain.Donor, 0, len(byKey))
	for _, donor := range byKey {
		donors = append(donors, donor)
	}
	sort.Slice(donors, func(i, j int) bool {
		return donors[i].Key() < donors[j].Key()
	})
	result.Donors = donors
	return result
}

// matchesExistingTransaction applies the (date, amount) heuristic
// against the donor's current donations.
func matchesExistingTransaction(existing []domain.Donation, candidate domain.Donation) bool {
	for _, dn := range existing {
		if dn.Date.Equal(candidate.Date) && dn.Amount == candidate.Amount {
			return true
		}
	}
	return false
}
