// Package exporter writes donor data as CSV for download and offline
// analysis. Output carries a UTF-8 BOM so Excel opens it correctly.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"donorpulse/pkg/contracts/domain"
)

// utf8BOM helps Excel recognize UTF-8 encoded CSV.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var donorHeaders = []string{
	"first_name", "last_name", "email", "phone",
	"total_amount", "donation_count", "average_donation",
	"first_donation", "last_donation", "frequency",
}

var donationHeaders = []string{
	"donation_id", "first_name", "last_name", "amount", "date", "month", "year",
}

// WriteDonorSummary writes one row per donor with aggregate fields.
func WriteDonorSummary(w io.Writer, donors []*domain.Donor) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(donorHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	for _, d := range donors {
		record := []string{
			d.FirstName,
			d.LastName,
			d.Email,
			d.Phone,
			formatFloat(d.TotalAmount),
			formatInt(int64(d.DonationCount)),
			formatFloat(d.AverageDonation),
			formatDate(d.FirstDonation),
			formatDate(d.LastDonation),
			string(d.Frequency),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write donor %s: %w", d.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDonations writes one row per donation across all donors,
// preserving donor order.
func WriteDonations(w io.Writer, donors []*domain.Donor) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(donationHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	for _, d := range donors {
		for _, donation := range d.Donations {
			record := []string{
				donation.ID,
				d.FirstName,
				d.LastName,
				formatFloat(donation.Amount),
				formatDate(donation.Date),
				donation.Month,
				formatInt(int64(donation.Year)),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write donation %s: %w", donation.ID, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
