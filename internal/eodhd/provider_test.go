package eodhd

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/candle/internal/models"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", WithBaseURL(server.URL), WithRateLimit(100))
	p := NewProvider(client, "US", arbor.NewLogger())
	p.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), PeriodStart(now, models.Period1M))
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), PeriodStart(now, models.Period1Y))
	assert.Equal(t, time.Date(2019, 3, 15, 0, 0, 0, 0, time.UTC), PeriodStart(now, models.Period5Y))
	assert.True(t, PeriodStart(now, models.Period10Y).IsZero())
}

func TestProvider_GetBars(t *testing.T) {
	var gotPath, gotFrom, gotToken, gotOrder string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOrder = r.URL.Query().Get("order")
		gotFrom = r.URL.Query().Get("from")
		gotToken = r.URL.Query().Get("api_token")
		w.Write([]byte(`[
			{"date":"2024-02-15","open":10,"high":12,"low":9,"close":11,"adjusted_close":11,"volume":100},
			{"date":"2024-02-16","open":null,"high":null,"low":null,"close":12,"adjusted_close":12,"volume":50}
		]`))
	})

	bars, err := p.GetBars(context.Background(), "aapl", models.Period1M)
	require.NoError(t, err)

	assert.Equal(t, "/eod/AAPL.US", gotPath)
	assert.Equal(t, "2024-02-15", gotFrom)
	assert.Equal(t, "test-key", gotToken)
	assert.Equal(t, "a", gotOrder)

	require.Len(t, bars, 2)
	assert.Equal(t, 11.0, bars[0].Close)
	assert.True(t, math.IsNaN(bars[1].Open), "null open is reported as NaN")
	assert.Equal(t, 12.0, bars[1].Close)
}

func TestProvider_GetBars_FullHistory(t *testing.T) {
	var hasFrom bool
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hasFrom = r.URL.Query().Has("from")
		w.Write([]byte(`[]`))
	})

	bars, err := p.GetBars(context.Background(), "AAPL", models.Period10Y)
	require.NoError(t, err)
	assert.Empty(t, bars)
	assert.False(t, hasFrom)
}

func TestProvider_GetBars_UnknownSymbol(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Ticker Not Found.", http.StatusNotFound)
	})

	bars, err := p.GetBars(context.Background(), "ZZZZ", models.Period1Y)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestProvider_GetBars_TransportFailure(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := p.GetBars(context.Background(), "AAPL", models.Period1Y)
	require.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestProvider_GetBars_RateLimited(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.GetBars(context.Background(), "AAPL", models.Period1Y)
	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 7*time.Second, rlErr.RetryAfter)
}

func TestProvider_GetMetadata(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/fundamentals/BRK-B.US"))
		assert.Equal(t, "General,Highlights", r.URL.Query().Get("filter"))
		w.Write([]byte(`{
			"General": {"Name":"Berkshire Hathaway Inc","Sector":"","GicSector":"Financials","Industry":"Insurance","CountryName":"USA","IPODate":"1996-05-09","Description":"Berkshire Hathaway Inc. owns subsidiaries. It was founded in 1839."},
			"Highlights": {"MarketCapitalization": 880000000000}
		}`))
	})

	meta, err := p.GetMetadata(context.Background(), "brk.b")
	require.NoError(t, err)

	assert.Equal(t, "BRK.B", meta.Ticker)
	assert.Equal(t, "Berkshire Hathaway Inc", meta.Name)
	assert.Equal(t, "Financials", meta.Sector)
	assert.Equal(t, "Insurance", meta.Industry)
	assert.Equal(t, "USA", meta.Country)
	assert.Equal(t, 880e9, meta.MarketCap)
	assert.Equal(t, time.Date(1996, 5, 9, 0, 0, 0, 0, time.UTC).Unix(), meta.FirstTradeEpochSeconds)
	assert.Contains(t, meta.Summary, "owns subsidiaries")
}
