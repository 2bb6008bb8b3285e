package analytics

import (
	"math"

	"donorpulse/pkg/contracts/domain"
)

// Composite adjustment weights per indicator. A policy constant, not a
// derived quantity; the four weights sum to 1.0.
const (
	weightConsumerConfidence = 0.30
	weightMarketPerformance  = 0.25
	weightUnemployment       = 0.25
	weightGDPGrowth          = 0.20
)

// dampingLimit bounds the composite adjustment to +-30% to keep a
// single economic swing from whipsawing the forecast.
const dampingLimit = 0.30

// maxAdjustedConfidence caps confidence after adjustment.
const maxAdjustedConfidence = 0.95

// recentWindow and historicalWindow split an indicator series into the
// comparison windows for impact computation: the 3 most recent points
// against the up-to-9 before them.
const (
	recentWindow     = 3
	historicalWindow = 9
)

// IndicatorImpact measures how an indicator's recent level deviates
// from its historical baseline, weighted by the indicator's correlation
// with donation behavior: the relative change of the recent-window mean
// against the prior-window mean, times the absolute correlation.
// Series with fewer than two points, an empty historical window, or a
// zero historical mean yield zero impact.
func IndicatorImpact(indicator domain.EconomicIndicator) float64 {
	data := indicator.Data
	if len(data) < 2 {
		return 0
	}

	recentStart := len(data) - recentWindow
	if recentStart < 0 {
		recentStart = 0
	}
	historicalStart := recentStart - historicalWindow
	if historicalStart < 0 {
		historicalStart = 0
	}

	recent := data[recentStart:]
	historical := data[historicalStart:recentStart]
	if len(historical) == 0 {
		return 0
	}

	var recentSum, historicalSum float64
	for _, p := range recent {
		recentSum += p.Value
	}
	for _, p := range historical {
		historicalSum += p.Value
	}

	recentAvg := recentSum / float64(len(recent))
	historicalAvg := historicalSum / float64(len(historical))
	if historicalAvg == 0 {
		return 0
	}

	percentChange := (recentAvg - historicalAvg) / historicalAvg
	return percentChange * math.Abs(indicator.Correlation)
}

// ComputeEconomicFactors computes the per-indicator impact breakdown from a
// supplied indicator set. Indicators are matched by canonical name;
// missing indicators contribute zero impact, so an empty or partial set
// degrades to a neutral adjustment.
func ComputeEconomicFactors(indicators []domain.EconomicIndicator) domain.EconomicFactors {
	factors := domain.EconomicFactors{}
	for _, indicator := range indicators {
		switch indicator.Name {
		case domain.IndicatorConsumerConfidence:
			factors.ConsumerConfidence = IndicatorImpact(indicator)
		case domain.IndicatorMarketPerformance:
			factors.MarketPerformance = IndicatorImpact(indicator)
		case domain.IndicatorUnemployment:
			factors.UnemploymentImpact = IndicatorImpact(indicator)
		case domain.IndicatorGDPGrowth:
			factors.GDPGrowthImpact = IndicatorImpact(indicator)
		}
	}
	return factors
}

// AdjustForecast reweights a base forecast by the composite economic
// adjustment. It takes the base forecaster's output as a parameter
// rather than recomputing it, so the two stages stay independently
// testable.
//
// The composite is the weighted sum of the four indicator impacts,
// clamped to the damping limit. Adjusted amounts scale the base by
// (1 + composite); adjusted confidence grows with the magnitude of the
// adjustment (a stated design intent, not a statistical property) and
// is capped at 0.95.
func AdjustForecast(base domain.ForecastData, indicators []domain.EconomicIndicator) domain.EnhancedForecastData {
	factors := ComputeEconomicFactors(indicators)

	composite := factors.ConsumerConfidence*weightConsumerConfidence +
		factors.MarketPerformance*weightMarketPerformance +
		factors.UnemploymentImpact*weightUnemployment +
		factors.GDPGrowthImpact*weightGDPGrowth

	damped := math.Max(-dampingLimit, math.Min(dampingLimit, composite))

	adjust := func(point domain.ForecastPoint) domain.AdjustedForecastPoint {
		delta := point.PredictedAmount * damped
		return domain.AdjustedForecastPoint{
			BaseAmount:         point.PredictedAmount,
			EconomicAdjustment: delta,
			FinalAmount:        point.PredictedAmount + delta,
			Confidence:         math.Min(maxAdjustedConfidence, point.Confidence+math.Abs(damped)*0.1),
		}
	}

	return domain.EnhancedForecastData{
		ForecastData:    base,
		EconomicFactors: factors,
		AdjustedPredictions: domain.AdjustedPredictions{
			NextMonth:   adjust(base.NextMonth),
			NextQuarter: adjust(base.NextQuarter),
		},
	}
}
