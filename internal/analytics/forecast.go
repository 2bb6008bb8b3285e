package analytics

import (
	"math"

	"donorpulse/pkg/contracts/domain"
)

// forecastWindow caps the regression input at the most recent months.
const forecastWindow = 6

// Slope thresholds for trend classification, in amount units per month
// step. Absolute rather than normalized, so classification is
// scale-dependent across organizations of different sizes.
const (
	trendUpThreshold   = 0.1
	trendDownThreshold = -0.1
)

// regression holds a fitted least-squares line over index positions.
type regression struct {
	slope     float64
	intercept float64
	rSquared  float64
}

func (r regression) predict(x float64) float64 {
	return r.slope*x + r.intercept
}

// fitLine computes the ordinary least-squares line for values against
// their index positions 0..n-1, via the closed-form normal equations.
// A series with zero variance is reported as perfectly explained
// (R-squared 1) rather than dividing by zero.
func fitLine(values []float64) regression {
	n := float64(len(values))

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	yMean := sumY / n
	var ssRes, ssTot float64
	for i, v := range values {
		predicted := slope*float64(i) + intercept
		ssRes += (v - predicted) * (v - predicted)
		ssTot += (v - yMean) * (v - yMean)
	}

	rSquared := 1.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}

	return regression{slope: slope, intercept: intercept, rSquared: rSquared}
}

// Forecast fits a trend line over the recent monthly series and
// projects next-month and next-quarter revenue.
//
// Fewer than three months of history is a valid, non-error input that
// yields a zero-amount, zero-confidence forecast with a stable trend.
// Otherwise the last up-to-six monthly amounts are regressed against
// their index positions; the next month is the line evaluated one step
// past the series, the next quarter the mean of the three following
// steps. Confidence is R-squared clamped to [0, 1], and predictions are
// floored at zero since revenue cannot go negative.
func Forecast(trends []domain.MonthlyTrend) domain.ForecastData {
	if len(trends) < 3 {
		return domain.ForecastData{TrendDirection: domain.TrendStable}
	}

	start := 0
	if len(trends) > forecastWindow {
		start = len(trends) - forecastWindow
	}
	amounts := make([]float64, 0, forecastWindow)
	for _, trend := range trends[start:] {
		amounts = append(amounts, trend.Amount)
	}

	line := fitLine(amounts)
	n := float64(len(amounts))

	nextMonth := math.Max(0, line.predict(n))
	nextQuarter := math.Max(0, (line.predict(n)+line.predict(n+1)+line.predict(n+2))/3)

	confidence := math.Max(0, math.Min(1, line.rSquared))

	direction := domain.TrendStable
	switch {
	case line.slope > trendUpThreshold:
		direction = domain.TrendUp
	case line.slope < trendDownThreshold:
		direction = domain.TrendDown
	}

	return domain.ForecastData{
		NextMonth:      domain.ForecastPoint{PredictedAmount: nextMonth, Confidence: confidence},
		NextQuarter:    domain.ForecastPoint{PredictedAmount: nextQuarter, Confidence: confidence},
		TrendDirection: direction,
	}
}
