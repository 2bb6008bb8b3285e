package analytics

import (
	"sort"
	"time"

	"donorpulse/pkg/contracts/domain"
)

type monthKey struct {
	year  int
	month time.Month
}

// MonthlyTrends buckets every donation into its calendar month and
// returns one trend entry per month, sorted ascending by (year, month).
// The sort is on the integer key, never on the month label: lexical
// label ordering would put "Apr 2025" before "Jan 2024".
//
// DonorCount is the number of distinct donors who gave in the month,
// not the number of donations, and the average is amount per
// contributing donor.
func MonthlyTrends(donors []*domain.Donor) []domain.MonthlyTrend {
	type bucket struct {
		amount float64
		donors map[string]struct{}
	}

	buckets := make(map[monthKey]*bucket)
	for _, donor := range donors {
		for _, donation := range donor.Donations {
			key := monthKey{year: donation.Date.Year(), month: donation.Date.Month()}
			b, ok := buckets[key]
			if !ok {
				b = &bucket{donors: make(map[string]struct{})}
				buckets[key] = b
			}
			b.amount += donation.Amount
			b.donors[donor.ID] = struct{}{}
		}
	}

	trends := make([]domain.MonthlyTrend, 0, len(buckets))
	for key, b := range buckets {
		trends = append(trends, domain.MonthlyTrend{
			Year:            key.year,
			Month:           key.month,
			Label:           time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
			Amount:          b.amount,
			DonorCount:      len(b.donors),
			AverageDonation: b.amount / float64(len(b.donors)),
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Year != trends[j].Year {
			return trends[i].Year < trends[j].Year
		}
		return trends[i].Month < trends[j].Month
	})
	return trends
}

// SeasonalPatterns aggregates giving per calendar month across all
// years, for spotting recurring strong months. Output is ordered
// January through December, months with no donations omitted.
func SeasonalPatterns(donors []*domain.Donor) []domain.SeasonalPattern {
	type bucket struct {
		total float64
		count int
	}

	buckets := make(map[time.Month]*bucket)
	for _, donor := range donors {
		for _, donation := range donor.Donations {
			m := donation.Date.Month()
			b, ok := buckets[m]
			if !ok {
				b = &bucket{}
				buckets[m] = b
			}
			b.total += donation.Amount
			b.count++
		}
	}

	patterns := make([]domain.SeasonalPattern, 0, len(buckets))
	for m := time.January; m <= time.December; m++ {
		b, ok := buckets[m]
		if !ok {
			continue
		}
		patterns = append(patterns, domain.SeasonalPattern{
			Month:         m,
			Label:         m.String(),
			TotalAmount:   b.total,
			AverageAmount: b.total / float64(b.count),
			DonationCount: b.count,
		})
	}
	return patterns
}
