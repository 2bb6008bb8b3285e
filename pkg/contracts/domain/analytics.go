package domain

import "time"

// TrendDirection describes the slope classification of a fitted trend.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// MonthlyTrend aggregates all donations within one calendar month.
// Recomputed fresh on every analysis call, never persisted.
type MonthlyTrend struct {
	// Year and Month are the integer bucket key. Consumers must sort on
	// these, never on the Label string, which misorders across years.
	Year  int        `json:"year"`
	Month time.Month `json:"month"`

	// Label is the display form, e.g. "Jan 2024".
	Label string `json:"label"`

	// Amount is the total donated in the month.
	Amount float64 `json:"amount"`

	// DonorCount is the number of distinct donors who gave that month,
	// not the number of donations.
	DonorCount int `json:"donor_count"`

	// AverageDonation is Amount divided by DonorCount.
	AverageDonation float64 `json:"average_donation"`
}

// RetentionData compares donor activity in the calendar month holding
// "now" against the immediately preceding month.
type RetentionData struct {
	NewDonors       int     `json:"new_donors"`
	ReturningDonors int     `json:"returning_donors"`
	RetentionRate   float64 `json:"retention_rate"`
	ChurnRate       float64 `json:"churn_rate"`
}

// ForecastPoint is a single predicted amount with its confidence score.
type ForecastPoint struct {
	PredictedAmount float64 `json:"predicted_amount"`
	Confidence      float64 `json:"confidence"`
}

// ForecastData is the regression-based revenue projection. Confidence
// is the regression's R-squared clamped to [0, 1]; predicted amounts
// are floored at zero.
type ForecastData struct {
	NextMonth      ForecastPoint  `json:"next_month"`
	NextQuarter    ForecastPoint  `json:"next_quarter"`
	TrendDirection TrendDirection `json:"trend_direction"`
}

// EconomicFactors holds the per-indicator impact breakdown feeding the
// composite economic adjustment.
type EconomicFactors struct {
	ConsumerConfidence float64 `json:"consumer_confidence"`
	MarketPerformance  float64 `json:"market_performance"`
	UnemploymentImpact float64 `json:"unemployment_impact"`
	GDPGrowthImpact    float64 `json:"gdp_growth_impact"`
}

// AdjustedForecastPoint is a base prediction with its economic delta
// applied.
type AdjustedForecastPoint struct {
	BaseAmount         float64 `json:"base_amount"`
	EconomicAdjustment float64 `json:"economic_adjustment"`
	FinalAmount        float64 `json:"final_amount"`
	Confidence         float64 `json:"confidence"`
}

// AdjustedPredictions groups the economically adjusted horizons.
type AdjustedPredictions struct {
	NextMonth   AdjustedForecastPoint `json:"next_month"`
	NextQuarter AdjustedForecastPoint `json:"next_quarter"`
}

// EnhancedForecastData extends the base forecast with an economic
// factor breakdown and adjusted predictions.
type EnhancedForecastData struct {
	ForecastData
	EconomicFactors     EconomicFactors     `json:"economic_factors"`
	AdjustedPredictions AdjustedPredictions `json:"adjusted_predictions"`
}

// AnalysisResult is the complete analytical view over a donor set.
// Every field is a computed, ephemeral view recreated on each call.
type AnalysisResult struct {
	TotalDonors     int            `json:"total_donors"`
	TotalAmount     float64        `json:"total_amount"`
	AverageDonation float64        `json:"average_donation"`
	DonationCount   int            `json:"donation_count"`
	TopDonors       []*Donor       `json:"top_donors"`
	MonthlyTrends   []MonthlyTrend `json:"monthly_trends"`
	DonorRetention  RetentionData  `json:"donor_retention"`
	Forecast        ForecastData   `json:"forecast"`
}

// PeriodComparison reports relative growth between two analyzed donor
// sets. Growth rates are fractions, e.g. 0.25 for 25% growth.
type PeriodComparison struct {
	Period1 AnalysisResult `json:"period1"`
	Period2 AnalysisResult `json:"period2"`

	DonorGrowth       float64 `json:"donor_growth"`
	AmountGrowth      float64 `json:"amount_growth"`
	AvgDonationGrowth float64 `json:"avg_donation_growth"`
}

// SeasonalPattern summarizes historical giving for one calendar month
// across all years of data.
type SeasonalPattern struct {
	Month         time.Month `json:"month"`
	Label         string     `json:"label"`
	TotalAmount   float64    `json:"total_amount"`
	AverageAmount float64    `json:"average_amount"`
	DonationCount int        `json:"donation_count"`
}

// CampaignTiming recommends fundraising months based on seasonal
// giving history and current indicator trends.
type CampaignTiming struct {
	RecommendedMonths []string `json:"recommended_months"`
	Reasoning         string   `json:"reasoning"`
	ConfidenceScore   float64  `json:"confidence_score"`
}

// UploadResult reports the outcome of one ingestion batch.
type UploadResult struct {
	RecordsProcessed int       `json:"records_processed"`
	RecordsAccepted  int       `json:"records_accepted"`
	DonationsAdded   int       `json:"donations_added"`
	DonorsTotal      int       `json:"donors_total"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// UploadRecord is one entry of the persisted upload history.
type UploadRecord struct {
	Date         time.Time `json:"date"`
	RecordsAdded int       `json:"records_added"`
	TotalRecords int       `json:"total_records"`
}
