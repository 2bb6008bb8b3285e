package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"donorpulse/pkg/contracts/domain"
)

// topDonorLimit caps the top-donors list in an analysis result.
const topDonorLimit = 10

// Analyze computes the complete analytical view over a donor set:
// grand totals, top donors, monthly trends, retention relative to now,
// and the base forecast. The input is not modified.
func Analyze(donors []*domain.Donor, now time.Time) domain.AnalysisResult {
	var totalAmount float64
	var donationCount int
	for _, donor := range donors {
		totalAmount += donor.TotalAmount
		donationCount += donor.DonationCount
	}

	averageDonation := 0.0
	if donationCount > 0 {
		averageDonation = totalAmount / float64(donationCount)
	}

	top := make([]*domain.Donor, len(donors))
	copy(top, donors)
	sort.Slice(top, func(i, j int) bool {
		return top[i].TotalAmount > top[j].TotalAmount
	})
	if len(top) > topDonorLimit {
		top = top[:topDonorLimit]
	}

	trends := MonthlyTrends(donors)

	return domain.AnalysisResult{
		TotalDonors:     len(donors),
		TotalAmount:     totalAmount,
		AverageDonation: averageDonation,
		DonationCount:   donationCount,
		TopDonors:       top,
		MonthlyTrends:   trends,
		DonorRetention:  Retention(donors, now),
		Forecast:        Forecast(trends),
	}
}

// AnalyzeEnhanced runs the base analysis and layers the economic
// adjustment over its forecast. An empty indicator set yields a
// zero-impact adjustment, not an error.
func AnalyzeEnhanced(donors []*domain.Donor, indicators []domain.EconomicIndicator, now time.Time) (domain.AnalysisResult, domain.EnhancedForecastData) {
	result := Analyze(donors, now)
	return result, AdjustForecast(result.Forecast, indicators)
}

// ComparePeriods analyzes two donor sets and reports relative growth
// between them. Growth against an empty first period is reported as
// zero rather than dividing by zero.
func ComparePeriods(period1, period2 []*domain.Donor, now time.Time) domain.PeriodComparison {
	p1 := Analyze(period1, now)
	p2 := Analyze(period2, now)

	growth := func(before, after float64) float64 {
		if before == 0 {
			return 0
		}
		return (after - before) / before
	}

	return domain.PeriodComparison{
		Period1:           p1,
		Period2:           p2,
		DonorGrowth:       growth(float64(p1.TotalDonors), float64(p2.TotalDonors)),
		AmountGrowth:      growth(p1.TotalAmount, p2.TotalAmount),
		AvgDonationGrowth: growth(p1.AverageDonation, p2.AverageDonation),
	}
}

// CampaignTiming scores the current fundraising climate from indicator
// trends and recommends the historically strongest giving months.
func CampaignTiming(indicators []domain.EconomicIndicator, donors []*domain.Donor) domain.CampaignTiming {
	var score float64
	var reasoning strings.Builder

	for _, indicator := range indicators {
		switch indicator.Name {
		case domain.IndicatorConsumerConfidence:
			if indicator.Trend == domain.TrendUp && indicator.CurrentValue > 95 {
				score += 0.3
				reasoning.WriteString("Consumer confidence is rising, indicating favorable giving conditions. ")
			}
		case domain.IndicatorMarketPerformance:
			if indicator.Trend == domain.TrendUp {
				score += 0.25
				reasoning.WriteString("Stock market performance is positive, potentially increasing donor wealth. ")
			}
		}
	}

	patterns := SeasonalPatterns(donors)
	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].AverageAmount > patterns[j].AverageAmount
	})
	if len(patterns) > 3 {
		patterns = patterns[:3]
	}

	months := make([]string, 0, len(patterns))
	for _, p := range patterns {
		months = append(months, p.Label)
	}

	// Historical patterns always contribute the base of the score.
	score += 0.45
	if len(months) > 0 {
		reasoning.WriteString(fmt.Sprintf("Historical data shows strongest giving in %s.", strings.Join(months, ", ")))
	} else {
		reasoning.WriteString("No historical giving data available for seasonal timing.")
	}

	if score > 1 {
		score = 1
	}

	return domain.CampaignTiming{
		RecommendedMonths: months,
		Reasoning:         reasoning.String(),
		ConfidenceScore:   score,
	}
}
