package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"donorpulse/internal/analytics"
	"donorpulse/internal/economic"
	"donorpulse/internal/infrastructure"
	"donorpulse/internal/storage"
	"donorpulse/pkg/contracts/domain"
)

// EnhancedAnalysis bundles the base analysis with its economically
// adjusted forecast and campaign timing guidance.
type EnhancedAnalysis struct {
	Analysis         domain.AnalysisResult       `json:"analysis"`
	EnhancedForecast domain.EnhancedForecastData `json:"enhanced_forecast"`
	Indicators       []domain.EconomicIndicator  `json:"indicators"`
	CampaignTiming   domain.CampaignTiming       `json:"campaign_timing"`
}

// AnalysisService computes analytics snapshots over the stored donor set.
// Every call recomputes from the full set; nothing is cached between
// uploads.
type AnalysisService struct {
	store    *storage.Store
	provider *economic.Provider
	metrics  *infrastructure.IngestMetrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewAnalysisService creates an analysis service. metrics may be nil.
func NewAnalysisService(store *storage.Store, provider *economic.Provider, metrics *infrastructure.IngestMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		store:    store,
		provider: provider,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Used by tests.
func (s *AnalysisService) WithClock(now func() time.Time) *AnalysisService {
	s.now = now
	return s
}

// Analyze computes the base analysis over all stored donors.
func (s *AnalysisService) Analyze(ctx context.Context) (domain.AnalysisResult, error) {
	start := time.Now()
	donors, err := s.store.LoadDonors()
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("load donors: %w", err)
	}

	result := analytics.Analyze(donors, s.now())
	s.observeDuration(ctx, start)

	s.logger.DebugContext(ctx, "analysis computed",
		"total_donors", result.TotalDonors,
		"donation_count", result.DonationCount,
	)
	return result, nil
}

// AnalyzeEnhanced computes the base analysis plus the economically
// adjusted forecast and campaign timing. Indicator fetch failures fall
// back to synthetic series inside the provider, so this does not fail
// when the external APIs are unreachable.
func (s *AnalysisService) AnalyzeEnhanced(ctx context.Context) (*EnhancedAnalysis, error) {
	start := time.Now()
	donors, err := s.store.LoadDonors()
	if err != nil {
		return nil, fmt.Errorf("load donors: %w", err)
	}

	indicators := s.provider.Indicators(ctx)
	result, enhanced := analytics.AnalyzeEnhanced(donors, indicators, s.now())
	timing := analytics.CampaignTiming(indicators, donors)
	s.observeDuration(ctx, start)

	return &EnhancedAnalysis{
		Analysis:         result,
		EnhancedForecast: enhanced,
		Indicators:       indicators,
		CampaignTiming:   timing,
	}, nil
}

// Indicators returns the current economic indicator set.
func (s *AnalysisService) Indicators(ctx context.Context) []domain.EconomicIndicator {
	return s.provider.Indicators(ctx)
}

func (s *AnalysisService) observeDuration(ctx context.Context, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveAnalysis(ctx, time.Since(start))
}
