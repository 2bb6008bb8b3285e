package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorpulse/pkg/contracts/domain"
)

func donorWithDonations(id string, donations ...domain.Donation) *domain.Donor {
	d := &domain.Donor{
		ID:        id,
		FirstName: id,
		LastName:  "test",
	}
	for _, dn := range donations {
		dn.DonorID = id
		d.Donations = append(d.Donations, dn)
	}
	d.Recalculate()
	return d
}

func donationOn(amount float64, year int, month time.Month, day int) domain.Donation {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return domain.Donation{
		ID:     date.Format("20060102") + "-" + time.Now().Format("150405.000000000"),
		Amount: amount,
		Date:   date,
		Month:  domain.MonthLabel(date),
		Year:   year,
	}
}

func TestMonthlyTrends(t *testing.T) {
	t.Run("buckets by calendar month", func(t *testing.T) {
		donors := []*domain.Donor{
			donorWithDonations("a",
				donationOn(100, 2024, time.January, 5),
				donationOn(50, 2024, time.January, 20),
				donationOn(75, 2024, time.February, 3),
			),
			donorWithDonations("b", donationOn(25, 2024, time.January, 10)),
		}

		trends := MonthlyTrends(donors)
		require.Len(t, trends, 2)

		jan := trends[0]
		assert.Equal(t, "Jan 2024", jan.Label)
		assert.Equal(t, 175.0, jan.Amount)
		assert.Equal(t, 2, jan.DonorCount)
		assert.Equal(t, 87.5, jan.AverageDonation)

		feb := trends[1]
		assert.Equal(t, 75.0, feb.Amount)
		assert.Equal(t, 1, feb.DonorCount)
	})

	t.Run("ordering is chronological not lexical", func(t *testing.T) {
		donors := []*domain.Donor{
			donorWithDonations("a",
				donationOn(10, 2025, time.April, 1),
				donationOn(10, 2024, time.January, 1),
				donationOn(10, 2024, time.December, 1),
			),
		}

		trends := MonthlyTrends(donors)
		require.Len(t, trends, 3)
		assert.Equal(t, "Jan 2024", trends[0].Label)
		assert.Equal(t, "Dec 2024", trends[1].Label)
		assert.Equal(t, "Apr 2025", trends[2].Label)
	})

	t.Run("donor count is distinct donors", func(t *testing.T) {
		donors := []*domain.Donor{
			donorWithDonations("a",
				donationOn(10, 2024, time.March, 1),
				donationOn(20, 2024, time.March, 15),
			),
		}

		trends := MonthlyTrends(donors)
		require.Len(t, trends, 1)
		assert.Equal(t, 1, trends[0].DonorCount)
		assert.Equal(t, 30.0, trends[0].AverageDonation)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, MonthlyTrends(nil))
	})
}

func TestSeasonalPatterns(t *testing.T) {
	donors := []*domain.Donor{
		donorWithDonations("a",
			donationOn(100, 2023, time.December, 10),
			donationOn(200, 2024, time.December, 12),
			donationOn(50, 2024, time.March, 1),
		),
	}

	patterns := SeasonalPatterns(donors)
	require.Len(t, patterns, 2)

	assert.Equal(t, time.March, patterns[0].Month)
	assert.Equal(t, 50.0, patterns[0].TotalAmount)

	december := patterns[1]
	assert.Equal(t, "December", december.Label)
	assert.Equal(t, 300.0, december.TotalAmount)
	assert.Equal(t, 150.0, december.AverageAmount)
	assert.Equal(t, 2, december.DonationCount)
}
