// Package economic supplies the external indicator series consumed by
// the forecast adjustment layer. It fetches four US indicators from the
// FRED and BLS public APIs and falls back to deterministic synthetic
// series when a source is unreachable, so analytics never block on
// indicator availability.
package economic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"donorpulse/pkg/contracts/domain"
)

// Fixed correlation coefficients between each indicator and donation
// behavior. Policy constants; negative for inverse relationships.
const (
	correlationConsumerConfidence = 0.75
	correlationMarketPerformance  = 0.68
	correlationUnemployment       = -0.62
	correlationGDPGrowth          = 0.71
)

// trendThreshold is the relative change separating up/down from stable
// when classifying an indicator's recent movement.
const trendThreshold = 0.02

// Config holds the provider's source endpoints and credentials.
type Config struct {
	FredBaseURL string
	BLSBaseURL  string
	FredAPIKey  string
	BLSAPIKey   string
	Timeout     time.Duration
}

// Provider fetches economic indicator series.
type Provider struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewProvider creates an indicator provider. Zero-value config fields
// get production defaults; a nil logger falls back to slog.Default.
func NewProvider(cfg Config, logger *slog.Logger) *Provider {
	if cfg.FredBaseURL == "" {
		cfg.FredBaseURL = "https://api.stlouisfed.org/fred"
	}
	if cfg.BLSBaseURL == "" {
		cfg.BLSBaseURL = "https://api.bls.gov/publicAPI/v2/timeseries/data"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(slog.String("component", "economic_provider")),
		now:    time.Now,
	}
}

// Indicators fetches all four indicator series concurrently and
// assembles them with their correlation constants and trend
// classification. A source failure downgrades that indicator to its
// synthetic fallback series; Indicators itself never fails.
func (p *Provider) Indicators(ctx context.Context) []domain.EconomicIndicator {
	var cci, sp500, unemployment, gdp []domain.EconomicDataPoint

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { cci = p.seriesOrFallback(gctx, domain.IndicatorConsumerConfidence); return nil })
	g.Go(func() error { sp500 = p.seriesOrFallback(gctx, domain.IndicatorMarketPerformance); return nil })
	g.Go(func() error { unemployment = p.seriesOrFallback(gctx, domain.IndicatorUnemployment); return nil })
	g.Go(func() error { gdp = p.seriesOrFallback(gctx, domain.IndicatorGDPGrowth); return nil })
	g.Wait()

	return []domain.EconomicIndicator{
		{
			Name:           domain.IndicatorConsumerConfidence,
			Data:           cci,
			Correlation:    correlationConsumerConfidence,
			CurrentValue:   lastValue(cci),
			Trend:          classifyTrend(cci),
			Impact:         "High correlation with discretionary giving",
			Recommendation: "Monitor monthly CCI reports for campaign timing",
		},
		{
			Name:           domain.IndicatorMarketPerformance,
			Data:           sp500,
			Correlation:    correlationMarketPerformance,
			CurrentValue:   lastValue(sp500),
			Trend:          classifyTrend(sp500),
			Impact:         "Stock market gains often increase charitable giving",
			Recommendation: "Track quarterly performance for major gift timing",
		},
		{
			Name:           domain.IndicatorUnemployment,
			Data:           unemployment,
			Correlation:    correlationUnemployment,
			CurrentValue:   lastValue(unemployment),
			Trend:          classifyTrend(unemployment),
			Impact:         "Inverse relationship with donation frequency",
			Recommendation: "Adjust fundraising strategies during economic downturns",
		},
		{
			Name:           domain.IndicatorGDPGrowth,
			Data:           gdp,
			Correlation:    correlationGDPGrowth,
			CurrentValue:   lastValue(gdp),
			Trend:          classifyTrend(gdp),
			Impact:         "Economic expansion correlates with increased giving",
			Recommendation: "Capitalize on growth periods for capital campaigns",
		},
	}
}

func (p *Provider) seriesOrFallback(ctx context.Context, name string) []domain.EconomicDataPoint {
	series, err := p.fetchSeries(ctx, name)
	if err != nil || len(series) == 0 {
		p.logger.WarnContext(ctx, "falling back to synthetic indicator series",
			slog.String("indicator", name),
			slog.Any("error", err))
		return FallbackSeries(name, p.now())
	}
	return series
}

func (p *Provider) fetchSeries(ctx context.Context, name string) ([]domain.EconomicDataPoint, error) {
	switch name {
	case domain.IndicatorConsumerConfidence:
		return p.fetchFredSeries(ctx, name, "UMCSENT", 24)
	case domain.IndicatorMarketPerformance:
		return p.fetchFredSeries(ctx, name, "SP500", 24)
	case domain.IndicatorGDPGrowth:
		return p.fetchFredSeries(ctx, name, "A191RL1Q225SBEA", 12)
	case domain.IndicatorUnemployment:
		return p.fetchBLSSeries(ctx, name, "LNS14000000")
	default:
		return nil, fmt.Errorf("unknown indicator: %s", name)
	}
}

// fredResponse mirrors the FRED observations endpoint payload. Values
// arrive as strings, occasionally "." for missing observations.
type fredResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

func (p *Provider) fetchFredSeries(ctx context.Context, name, seriesID string, limit int) ([]domain.EconomicDataPoint, error) {
	endpoint := fmt.Sprintf("%s/series/observations?series_id=%s&api_key=%s&file_type=json&limit=%d&sort_order=asc",
		p.cfg.FredBaseURL, url.QueryEscape(seriesID), url.QueryEscape(p.cfg.FredAPIKey), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FRED returned status %d for series %s", resp.StatusCode, seriesID)
	}

	var payload fredResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	points := make([]domain.EconomicDataPoint, 0, len(payload.Observations))
	for _, obs := range payload.Observations {
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue // "." marks a missing observation
		}
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			continue
		}
		points = append(points, domain.EconomicDataPoint{Date: date, Value: value, Indicator: name})
	}
	return points, nil
}

// blsResponse mirrors the BLS v2 timeseries payload. Periods arrive as
// "M01".."M12"; data is most-recent first.
type blsResponse struct {
	Results struct {
		Series []struct {
			Data []struct {
				Year   string `json:"year"`
				Period string `json:"period"`
				Value  string `json:"value"`
			} `json:"data"`
		} `json:"series"`
	} `json:"Results"`
}

func (p *Provider) fetchBLSSeries(ctx context.Context, name, seriesID string) ([]domain.EconomicDataPoint, error) {
	now := p.now()
	body, err := json.Marshal(map[string]interface{}{
		"seriesid":        []string{seriesID},
		"startyear":       strconv.Itoa(now.Year() - 2),
		"endyear":         strconv.Itoa(now.Year()),
		"registrationkey": p.cfg.BLSAPIKey,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BLSBaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("BLS returned status %d for series %s", resp.StatusCode, seriesID)
	}

	var payload blsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Results.Series) == 0 {
		return nil, fmt.Errorf("BLS returned no series for %s", seriesID)
	}

	raw := payload.Results.Series[0].Data
	points := make([]domain.EconomicDataPoint, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- { // reverse into chronological order
		item := raw[i]
		year, err := strconv.Atoi(item.Year)
		if err != nil {
			continue
		}
		month, err := strconv.Atoi(strings.TrimPrefix(item.Period, "M"))
		if err != nil || month < 1 || month > 12 {
			continue
		}
		value, err := strconv.ParseFloat(item.Value, 64)
		if err != nil {
			continue
		}
		points = append(points, domain.EconomicDataPoint{
			Date:      time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
			Value:     value,
			Indicator: name,
		})
	}
	return points, nil
}

func lastValue(points []domain.EconomicDataPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	return points[len(points)-1].Value
}

// classifyTrend compares the mean of the last 3 points against the 3
// before them; relative changes beyond the threshold classify as up or
// down, anything else as stable.
func classifyTrend(points []domain.EconomicDataPoint) domain.TrendDirection {
	if len(points) < 2 {
		return domain.TrendStable
	}

	recentStart := len(points) - 3
	if recentStart < 0 {
		recentStart = 0
	}
	olderStart := recentStart - 3
	if olderStart < 0 {
		olderStart = 0
	}

	recent := points[recentStart:]
	older := points[olderStart:recentStart]
	if len(older) == 0 {
		return domain.TrendStable
	}

	var recentSum, olderSum float64
	for _, point := range recent {
		recentSum += point.Value
	}
	for _, point := range older {
		olderSum += point.Value
	}

	olderAvg := olderSum / float64(len(older))
	if olderAvg == 0 {
		return domain.TrendStable
	}

	change := (recentSum/float64(len(recent)) - olderAvg) / olderAvg
	switch {
	case change > trendThreshold:
		return domain.TrendUp
	case change < -trendThreshold:
		return domain.TrendDown
	default:
		return domain.TrendStable
	}
}
