package economic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorpulse/pkg/contracts/domain"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
}

func fredObservations(values ...float64) string {
	type obs struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	}
	payload := struct {
		Observations []obs `json:"observations"`
	}{}
	for i, v := range values {
		payload.Observations = append(payload.Observations, obs{
			Date:  fmt.Sprintf("2024-%02d-01", i+1),
			Value: fmt.Sprintf("%g", v),
		})
	}
	out, _ := json.Marshal(payload)
	return string(out)
}

func blsPayload(values ...float64) string {
	type item struct {
		Year   string `json:"year"`
		Period string `json:"period"`
		Value  string `json:"value"`
	}
	var data []item
	// BLS serves most-recent first.
	for i := len(values) - 1; i >= 0; i-- {
		data = append(data, item{
			Year:   "2024",
			Period: fmt.Sprintf("M%02d", i+1),
			Value:  fmt.Sprintf("%g", values[i]),
		})
	}
	payload := map[string]interface{}{
		"Results": map[string]interface{}{
			"series": []map[string]interface{}{{"data": data}},
		},
	}
	out, _ := json.Marshal(payload)
	return string(out)
}

func TestProviderIndicators(t *testing.T) {
	t.Run("live sources", func(t *testing.T) {
		fred := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("series_id") {
			case "UMCSENT":
				fmt.Fprint(w, fredObservations(90, 92, 94, 96, 98, 100))
			case "SP500":
				fmt.Fprint(w, fredObservations(4000, 4100, 4200, 4300, 4400, 4500))
			case "A191RL1Q225SBEA":
				fmt.Fprint(w, fredObservations(2.0, 2.2, 2.4, 2.6))
			default:
				http.NotFound(w, r)
			}
		}))
		defer fred.Close()

		bls := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			fmt.Fprint(w, blsPayload(4.1, 4.0, 3.9, 3.8, 3.7, 3.6))
		}))
		defer bls.Close()

		p := NewProvider(Config{FredBaseURL: fred.URL, BLSBaseURL: bls.URL}, nil)
		p.now = fixedNow

		indicators := p.Indicators(context.Background())
		require.Len(t, indicators, 4)

		byName := make(map[string]domain.EconomicIndicator)
		for _, ind := range indicators {
			byName[ind.Name] = ind
		}

		cci := byName[domain.IndicatorConsumerConfidence]
		assert.Equal(t, 0.75, cci.Correlation)
		assert.Equal(t, 100.0, cci.CurrentValue)
		assert.Equal(t, domain.TrendUp, cci.Trend)
		assert.Len(t, cci.Data, 6)

		unemployment := byName[domain.IndicatorUnemployment]
		assert.Equal(t, -0.62, unemployment.Correlation)
		// Chronological order: the last point is the most recent month.
		assert.Equal(t, 3.6, unemployment.CurrentValue)
		assert.Equal(t, domain.TrendDown, unemployment.Trend)
	})

	t.Run("unreachable sources fall back to synthetic series", func(t *testing.T) {
		p := NewProvider(Config{
			FredBaseURL: "http://127.0.0.1:1",
			BLSBaseURL:  "http://127.0.0.1:1",
			Timeout:     time.Second,
		}, nil)
		p.now = fixedNow

		indicators := p.Indicators(context.Background())
		require.Len(t, indicators, 4)
		for _, ind := range indicators {
			assert.NotEmpty(t, ind.Data, "indicator %s has no fallback data", ind.Name)
			assert.NotZero(t, ind.CurrentValue)
		}
	})

	t.Run("server errors fall back", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer srv.Close()

		p := NewProvider(Config{FredBaseURL: srv.URL, BLSBaseURL: srv.URL}, nil)
		p.now = fixedNow

		indicators := p.Indicators(context.Background())
		for _, ind := range indicators {
			assert.NotEmpty(t, ind.Data)
		}
	})

	t.Run("missing FRED observations are skipped", func(t *testing.T) {
		fred := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"observations":[{"date":"2024-01-01","value":"95"},{"date":"2024-02-01","value":"."},{"date":"2024-03-01","value":"97"}]}`)
		}))
		defer fred.Close()

		p := NewProvider(Config{FredBaseURL: fred.URL}, nil)
		points, err := p.fetchFredSeries(context.Background(), domain.IndicatorConsumerConfidence, "UMCSENT", 24)
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.Equal(t, 97.0, points[1].Value)
	})
}

func TestFallbackSeries(t *testing.T) {
	now := fixedNow()

	t.Run("deterministic", func(t *testing.T) {
		first := FallbackSeries(domain.IndicatorConsumerConfidence, now)
		second := FallbackSeries(domain.IndicatorConsumerConfidence, now)
		assert.Equal(t, first, second)
	})

	t.Run("monthly indicators have a year of history", func(t *testing.T) {
		for _, name := range []string{
			domain.IndicatorConsumerConfidence,
			domain.IndicatorMarketPerformance,
			domain.IndicatorUnemployment,
		} {
			series := FallbackSeries(name, now)
			require.Len(t, series, 12, name)
			assert.True(t, series[0].Date.Before(series[11].Date))
		}
	})

	t.Run("GDP series is quarterly", func(t *testing.T) {
		series := FallbackSeries(domain.IndicatorGDPGrowth, now)
		require.Len(t, series, 8)
		gap := series[1].Date.Sub(series[0].Date)
		assert.InDelta(t, 90, gap.Hours()/24, 3)
	})

	t.Run("unknown indicator yields nil", func(t *testing.T) {
		assert.Nil(t, FallbackSeries("Housing Starts", now))
	})
}

func TestClassifyTrend(t *testing.T) {
	series := func(values ...float64) []domain.EconomicDataPoint {
		points := make([]domain.EconomicDataPoint, len(values))
		for i, v := range values {
			points[i] = domain.EconomicDataPoint{Value: v}
		}
		return points
	}

	tests := []struct {
		name     string
		points   []domain.EconomicDataPoint
		expected domain.TrendDirection
	}{
		{name: "rising", points: series(100, 100, 100, 110, 110, 110), expected: domain.TrendUp},
		{name: "falling", points: series(100, 100, 100, 90, 90, 90), expected: domain.TrendDown},
		{name: "within threshold", points: series(100, 100, 100, 101, 101, 101), expected: domain.TrendStable},
		{name: "too short", points: series(100), expected: domain.TrendStable},
		{name: "empty", points: nil, expected: domain.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyTrend(tt.points))
		})
	}
}
