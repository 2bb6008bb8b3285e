package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"donorpulse/pkg/contracts/domain"
)

func TestRetention(t *testing.T) {
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	t.Run("returning and new donors", func(t *testing.T) {
		donors := []*domain.Donor{
			// Active in both January and February.
			donorWithDonations("both",
				donationOn(10, 2024, time.January, 5),
				donationOn(10, 2024, time.February, 5),
			),
			// January only.
			donorWithDonations("lapsed", donationOn(10, 2024, time.January, 20)),
			// February only.
			donorWithDonations("new", donationOn(10, 2024, time.February, 10)),
		}

		r := Retention(donors, now)
		assert.Equal(t, 1, r.ReturningDonors)
		assert.Equal(t, 1, r.NewDonors)
		assert.Equal(t, 0.5, r.RetentionRate)
		assert.Equal(t, 0.5, r.ChurnRate)
	})

	t.Run("empty previous month yields zero retention", func(t *testing.T) {
		donors := []*domain.Donor{
			donorWithDonations("new", donationOn(10, 2024, time.February, 10)),
		}

		r := Retention(donors, now)
		assert.Equal(t, 0.0, r.RetentionRate)
		assert.Equal(t, 1.0, r.ChurnRate)
		assert.Equal(t, 1, r.NewDonors)
	})

	t.Run("no donors at all", func(t *testing.T) {
		r := Retention(nil, now)
		assert.Equal(t, 0, r.NewDonors)
		assert.Equal(t, 0, r.ReturningDonors)
		assert.Equal(t, 0.0, r.RetentionRate)
	})

	t.Run("year boundary", func(t *testing.T) {
		january := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		donors := []*domain.Donor{
			donorWithDonations("both",
				donationOn(10, 2024, time.December, 20),
				donationOn(10, 2025, time.January, 5),
			),
		}

		r := Retention(donors, january)
		assert.Equal(t, 1, r.ReturningDonors)
		assert.Equal(t, 1.0, r.RetentionRate)
	})

	t.Run("late month day does not skip short months", func(t *testing.T) {
		// March 31: the previous month must be February, which
		// AddDate(0, -1, 0) would normalize past.
		endOfMarch := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
		donors := []*domain.Donor{
			donorWithDonations("both",
				donationOn(10, 2024, time.February, 14),
				donationOn(10, 2024, time.March, 1),
			),
		}

		r := Retention(donors, endOfMarch)
		assert.Equal(t, 1, r.ReturningDonors)
	})
}
