package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_tracker/internal/feature/market/domain"
)

const dailyAdjustedBody = `{
	"Meta Data": {
		"1. Information": "Daily Time Series with Splits and Dividend Events",
		"2. Symbol": "AAPL"
	},
	"Time Series (Daily)": {
		"2025-01-14": {
			"1. open": "148.00",
			"2. high": "151.00",
			"3. low": "147.50",
			"4. close": "150.00",
			"5. adjusted close": "149.80",
			"6. volume": "900000",
			"7. dividend amount": "0.0000",
			"8. split coefficient": "1.0"
		},
		"2025-01-15": {
			"1. open": "150.00",
			"2. high": "155.00",
			"3. low": "149.00",
			"4. close": "154.50",
			"5. adjusted close": "154.25",
			"6. volume": "1000000",
			"7. dividend amount": "0.0000",
			"8. split coefficient": "1.0"
		}
	}
}`

// countingLimiter records how often the client asks for permission.
type countingLimiter struct {
	calls atomic.Int32
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.calls.Add(1)
	return l.err
}

func newTestMarket(t *testing.T, handler http.HandlerFunc) *AlphaVantageMarket {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAlphaVantageMarket(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client(), nil)
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

func TestNewAlphaVantageMarket_Defaults(t *testing.T) {
	t.Parallel()

	market := NewAlphaVantageMarket(Config{APIKey: "k"}, &http.Client{}, nil)

	assert.Equal(t, DefaultBaseURL, market.cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, market.cfg.Timeout)
	assert.Equal(t, "k", market.cfg.APIKey)
}

func TestAlphaVantageMarket_FetchPriceSeries_Success(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", q.Get("function"))
		assert.Equal(t, "AAPL", q.Get("symbol"))
		assert.Equal(t, "compact", q.Get("outputsize"))
		assert.Equal(t, "test-key", q.Get("apikey"))
		jsonHandler(dailyAdjustedBody)(w, r)
	})

	series, err := market.FetchPriceSeries(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, series.Bars, 2)

	assert.Equal(t, "AAPL", series.Symbol)
	// most recent first regardless of JSON key order
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), series.Bars[0].Date)
	assert.True(t, series.Bars[0].AdjustedClose.Equal(decimal.RequireFromString("154.25")))
	assert.True(t, series.Bars[0].Close.Equal(decimal.RequireFromString("154.50")))
	assert.Equal(t, int64(1000000), series.Bars[0].Volume)
	assert.True(t, series.Bars[1].Open.Equal(decimal.RequireFromString("148")))

	latest, ok := series.Latest()
	require.True(t, ok)
	assert.True(t, latest.AdjustedClose.Equal(decimal.RequireFromString("154.25")))
}

// TestAlphaVantageMarket_FetchPriceSeries_MissingKey は時系列キーがない場合に空の系列をエラーなしで返すことを検証します。
func TestAlphaVantageMarket_FetchPriceSeries_MissingKey(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, jsonHandler(`{"Meta Data": {"2. Symbol": "AAPL"}}`))

	series, err := market.FetchPriceSeries(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, series.IsEmpty())
	assert.Equal(t, "AAPL", series.Symbol)
}

// TestAlphaVantageMarket_FetchPriceSeries_Notices はAPI通知がドメインエラーに変換され、系列は空のままであることを検証します。
func TestAlphaVantageMarket_FetchPriceSeries_Notices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		expectedErr error
	}{
		{
			name:        "invalid symbol",
			body:        `{"Error Message": "Invalid API call. Please retry or visit the documentation for TIME_SERIES_DAILY_ADJUSTED."}`,
			expectedErr: domain.ErrSymbolNotFound,
		},
		{
			name:        "per-minute quota",
			body:        `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`,
			expectedErr: domain.ErrRateLimited,
		},
		{
			name:        "daily quota or bad key",
			body:        `{"Information": "The **demo** API key is for demo purposes only."}`,
			expectedErr: domain.ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			market := newTestMarket(t, jsonHandler(tt.body))

			series, err := market.FetchPriceSeries(context.Background(), "AAPL")
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.True(t, series.IsEmpty())
		})
	}
}

func TestAlphaVantageMarket_FetchPriceSeries_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad request", http.StatusBadRequest},
		{"forbidden", http.StatusForbidden},
		{"internal server error", http.StatusInternalServerError},
		{"service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			series, err := market.FetchPriceSeries(context.Background(), "AAPL")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUpstream)
			assert.Contains(t, err.Error(), "alphavantage http")
			assert.True(t, series.IsEmpty())
		})
	}
}

func TestAlphaVantageMarket_FetchPriceSeries_InvalidJSON(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, jsonHandler(`{invalid json`))

	_, err := market.FetchPriceSeries(context.Background(), "AAPL")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

// TestAlphaVantageMarket_FetchPriceSeries_SkipsMalformedBar は不正な日足だけをスキップすることを検証します。
func TestAlphaVantageMarket_FetchPriceSeries_SkipsMalformedBar(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, jsonHandler(`{
		"Time Series (Daily)": {
			"2025-01-15": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. adjusted close": "1", "6. volume": "10"},
			"2025-01-16": {"1. open": "n/a", "2. high": "1", "3. low": "1", "4. close": "1", "5. adjusted close": "1", "6. volume": "10"},
			"not-a-date": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. adjusted close": "1", "6. volume": "10"}
		}
	}`))

	series, err := market.FetchPriceSeries(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, series.Bars, 1)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), series.Bars[0].Date)
}

func TestAlphaVantageMarket_FetchPriceSeries_UsesLimiter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(jsonHandler(dailyAdjustedBody))
	defer server.Close()

	limiter := &countingLimiter{}
	market := NewAlphaVantageMarket(Config{BaseURL: server.URL}, server.Client(), limiter)

	_, err := market.FetchPriceSeries(context.Background(), "AAPL")
	require.NoError(t, err)
	_, err = market.FetchOverview(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, int32(2), limiter.calls.Load())
}

func TestAlphaVantageMarket_LimiterErrorStopsRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	limiter := &countingLimiter{err: context.Canceled}
	market := NewAlphaVantageMarket(Config{BaseURL: server.URL}, server.Client(), limiter)

	_, err := market.FetchPriceSeries(context.Background(), "AAPL")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(0), hits.Load())
}

func TestAlphaVantageMarket_FetchOverview_Success(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Empty(t, r.URL.Query().Get("outputsize"))
		jsonHandler(`{
			"Symbol": "AAPL",
			"Name": "Apple Inc",
			"Sector": "TECHNOLOGY",
			"Industry": "ELECTRONIC COMPUTERS",
			"RevenueTTM": "391035994000",
			"ProfitMargin": "0.24",
			"OperatingCashflow": "118254000000",
			"Beta": 1.24
		}`)(w, r)
	})

	o, err := market.FetchOverview(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", o.Symbol)
	assert.Equal(t, "TECHNOLOGY", o.Sector())
	assert.Equal(t, "Apple Inc", o.Fields["Name"])
	assert.Equal(t, "1.24", o.Fields["Beta"])
}

func TestAlphaVantageMarket_FetchOverview_Empty(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, jsonHandler(`{}`))

	o, err := market.FetchOverview(context.Background(), "ZZZZ")
	require.NoError(t, err)
	assert.True(t, o.IsEmpty())
	assert.Equal(t, "Unknown", o.Sector())
}

func TestAlphaVantageMarket_FetchOverview_RateLimited(t *testing.T) {
	t.Parallel()

	market := newTestMarket(t, jsonHandler(`{"Note": "Our standard API call frequency is 5 calls per minute."}`))

	o, err := market.FetchOverview(context.Background(), "AAPL")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.True(t, o.IsEmpty())
}
