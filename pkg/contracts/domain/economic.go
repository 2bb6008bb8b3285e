package domain

import "time"

// Canonical economic indicator names. The adjuster matches indicators
// by these names; unknown indicators are ignored.
const (
	IndicatorConsumerConfidence = "Consumer Confidence Index"
	IndicatorMarketPerformance  = "S&P 500 Performance"
	IndicatorUnemployment       = "Unemployment Rate"
	IndicatorGDPGrowth          = "GDP Growth Rate"
)

// EconomicDataPoint is one observation of an indicator series.
type EconomicDataPoint struct {
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	Indicator string    `json:"indicator"`
}

// EconomicIndicator carries a named historical series together with its
// fixed correlation coefficient against donation behavior. The engine
// does not fetch or validate indicator data itself; series are supplied
// by an external provider and tolerated when empty.
type EconomicIndicator struct {
	Name string              `json:"name"`
	Data []EconomicDataPoint `json:"data"`

	// Correlation is the coefficient against donation patterns, in
	// [-1, 1]. Negative for inverse relationships such as unemployment.
	Correlation float64 `json:"correlation" validate:"gte=-1,lte=1"`

	CurrentValue   float64        `json:"current_value"`
	Trend          TrendDirection `json:"trend"`
	Impact         string         `json:"impact,omitempty"`
	Recommendation string         `json:"recommendation,omitempty"`
}
