package marketcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
	"github.com/ternarybob/candle/internal/storage/badger"
)

// countingProvider implements interfaces.MarketDataProvider for testing
type countingProvider struct {
	bars      []models.Bar
	meta      *models.CompanyMetadata
	err       error
	barCalls  int
	metaCalls int
}

func (p *countingProvider) GetBars(ctx context.Context, ticker string, period models.Period) ([]models.Bar, error) {
	p.barCalls++
	return p.bars, p.err
}

func (p *countingProvider) GetMetadata(ctx context.Context, ticker string) (*models.CompanyMetadata, error) {
	p.metaCalls++
	if p.err != nil {
		return nil, p.err
	}
	meta := *p.meta
	return &meta, nil
}

func newTestService(t *testing.T, provider interfaces.MarketDataProvider, ttl time.Duration) (*Service, *time.Time) {
	t.Helper()
	logger := arbor.NewLogger()

	db, err := badger.NewBadgerDB(logger, &common.CacheConfig{Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(provider, badger.NewMarketCacheStorage(db, logger), ttl, logger)
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func sampleBars() []models.Bar {
	return []models.Bar{
		{Time: time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC), Open: 99, High: 101, Low: 98, Close: 100},
		{Time: time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), Open: 100, High: 111, Low: 99, Close: 110},
	}
}

func TestGetBars_ServesFreshEntryFromCache(t *testing.T) {
	provider := &countingProvider{bars: sampleBars()}
	svc, _ := newTestService(t, provider, time.Hour)
	ctx := context.Background()

	first, err := svc.GetBars(ctx, "AAPL", models.Period1M)
	require.NoError(t, err)
	second, err := svc.GetBars(ctx, "aapl", models.Period1M)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.barCalls)
	assert.Equal(t, first, second)
}

func TestGetBars_PeriodsAreCachedSeparately(t *testing.T) {
	provider := &countingProvider{bars: sampleBars()}
	svc, _ := newTestService(t, provider, time.Hour)
	ctx := context.Background()

	_, err := svc.GetBars(ctx, "AAPL", models.Period1M)
	require.NoError(t, err)
	_, err = svc.GetBars(ctx, "AAPL", models.Period1Y)
	require.NoError(t, err)

	assert.Equal(t, 2, provider.barCalls)
}

func TestGetBars_ExpiredEntryIsRefetched(t *testing.T) {
	provider := &countingProvider{bars: sampleBars()}
	svc, clock := newTestService(t, provider, time.Hour)
	ctx := context.Background()

	_, err := svc.GetBars(ctx, "AAPL", models.Period1M)
	require.NoError(t, err)

	*clock = clock.Add(2 * time.Hour)
	_, err = svc.GetBars(ctx, "AAPL", models.Period1M)
	require.NoError(t, err)

	assert.Equal(t, 2, provider.barCalls)
}

func TestGetBars_EmptyResultNotCached(t *testing.T) {
	provider := &countingProvider{}
	svc, _ := newTestService(t, provider, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		bars, err := svc.GetBars(ctx, "ZZZZ", models.Period1M)
		require.NoError(t, err)
		assert.Empty(t, bars)
	}
	assert.Equal(t, 2, provider.barCalls)
}

func TestGetBars_ProviderErrorPassesThrough(t *testing.T) {
	provider := &countingProvider{err: errors.New("boom")}
	svc, _ := newTestService(t, provider, time.Hour)

	_, err := svc.GetBars(context.Background(), "AAPL", models.Period1M)
	assert.EqualError(t, err, "boom")
}

func TestGetMetadata_CachedAndInvalidated(t *testing.T) {
	provider := &countingProvider{meta: &models.CompanyMetadata{Ticker: "AAPL", Name: "Apple Inc.", MarketCap: 3e12}}
	svc, _ := newTestService(t, provider, time.Hour)
	ctx := context.Background()

	meta, err := svc.GetMetadata(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", meta.Name)

	meta, err = svc.GetMetadata(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 3e12, meta.MarketCap)
	assert.Equal(t, 1, provider.metaCalls)

	require.NoError(t, svc.Invalidate(ctx, "AAPL"))
	_, err = svc.GetMetadata(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.metaCalls)
}

func TestIsFresh(t *testing.T) {
	svc, clock := newTestService(t, &countingProvider{}, time.Hour)

	assert.True(t, svc.IsFresh(clock.Add(-30*time.Minute)))
	assert.False(t, svc.IsFresh(clock.Add(-2*time.Hour)))
	assert.False(t, svc.IsFresh(time.Time{}))

	svc.ttl = 0
	assert.False(t, svc.IsFresh(*clock))
}
