package dataprocessing

import (
	"sort"

	"github.com/google/uuid"

	"donorpulse/pkg/contracts/domain"
)

// AggregateDonors groups normalized records by donor identity key and
// builds one Donor per group. Each donor gets a freshly generated
// identifier, every owned donation has its DonorID back-reference
// bound, and all derived metrics are computed. Output is sorted by
// identity key so aggregation is deterministic regardless of map
// iteration order.
func AggregateDonors(records []Record) []*domain.Donor {
	byKey := make(map[string]*domain.Donor)

	for _, record := range records {
		key := domain.IdentityKey(record.FirstName, record.LastName)

		donor, ok := byKey[key]
		if !ok {
			donor = &domain.Donor{
				ID:        uuid.NewString(),
				FirstName: record.FirstName,
				LastName:  record.LastName,
				Email:     record.Email,
				Phone:     record.Phone,
			}
			byKey[key] = donor
		}

		// Later rows may carry contact details the first row lacked.
		if donor.Email == "" && record.Email != "" {
			donor.Email = record.Email
		}
		if donor.Phone == "" && record.Phone != "" {
			donor.Phone = record.Phone
		}

		donation := record.Donation
		donation.DonorID = donor.ID
		donor.Donations = append(donor.Donations, donation)
	}

	donors := make([]*domain.Donor, 0, len(byKey))
	for _, donor := range byKey {
		donor.Recalculate()
		donors = append(donors, donor)
	}
	sort.Slice(donors, func(i, j int) bool {
		return donors[i].Key() < donors[j].Key()
	})
	return donors
}
