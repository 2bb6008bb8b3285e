package analytics

import (
	"time"

	"donorpulse/pkg/contracts/domain"
)

// Retention compares donor activity in the calendar month containing
// now against the immediately preceding month. Returning donors are
// those active in both; new donors are current-month donors absent last
// month. The retention rate is returning over last month's donor count,
// defined as 0 when last month had no donors, and churn is its
// complement.
func Retention(donors []*domain.Donor, now time.Time) domain.RetentionData {
	currentYear, currentMonth := now.Year(), now.Month()

	// Step to the previous month via the first of the current month;
	// AddDate on a late day-of-month would normalize past short months.
	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, now.Location())
	prev := firstOfMonth.AddDate(0, 0, -1)
	prevYear, prevMonth := prev.Year(), prev.Month()

	currentSet := make(map[string]struct{})
	prevSet := make(map[string]struct{})

	for _, donor := range donors {
		for _, donation := range donor.Donations {
			y, m := donation.Date.Year(), donation.Date.Month()
			if y == currentYear && m == currentMonth {
				currentSet[donor.ID] = struct{}{}
			}
			if y == prevYear && m == prevMonth {
				prevSet[donor.ID] = struct{}{}
			}
		}
	}

	returning := 0
	for id := range currentSet {
		if _, ok := prevSet[id]; ok {
			returning++
		}
	}

	retentionRate := 0.0
	if len(prevSet) > 0 {
		retentionRate = float64(returning) / float64(len(prevSet))
	}

	return domain.RetentionData{
		NewDonors:       len(currentSet) - returning,
		ReturningDonors: returning,
		RetentionRate:   retentionRate,
		ChurnRate:       1 - retentionRate,
	}
}
