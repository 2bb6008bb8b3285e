package economic

import (
	"math"
	"time"

	"donorpulse/pkg/contracts/domain"
)

// FallbackSeries synthesizes a plausible indicator series for use when
// the remote source is unavailable. The series are deterministic
// (seeded only by the calendar) so repeated analysis runs during an
// outage stay reproducible.
func FallbackSeries(name string, now time.Time) []domain.EconomicDataPoint {
	switch name {
	case domain.IndicatorConsumerConfidence:
		return syntheticMonthly(name, now, 12, func(i int) float64 {
			return 95 + math.Sin(float64(i)*0.5)*10
		})
	case domain.IndicatorMarketPerformance:
		return syntheticMonthly(name, now, 12, func(i int) float64 {
			return 4200 + float64(i)*50
		})
	case domain.IndicatorUnemployment:
		return syntheticMonthly(name, now, 12, func(i int) float64 {
			return 3.8 + math.Sin(float64(i)*0.3)*0.5
		})
	case domain.IndicatorGDPGrowth:
		// Quarterly series: eight quarters of trailing history.
		points := make([]domain.EconomicDataPoint, 0, 8)
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -21, 0)
		for i := 0; i < 8; i++ {
			points = append(points, domain.EconomicDataPoint{
				Date:      start.AddDate(0, i*3, 0),
				Value:     2.1 + math.Sin(float64(i)*0.4)*0.8,
				Indicator: name,
			})
		}
		return points
	default:
		return nil
	}
}

func syntheticMonthly(name string, now time.Time, months int, value func(i int) float64) []domain.EconomicDataPoint {
	points := make([]domain.EconomicDataPoint, 0, months)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		points = append(points, domain.EconomicDataPoint{
			Date:      start.AddDate(0, i, 0),
			Value:     value(i),
			Indicator: name,
		})
	}
	return points
}
