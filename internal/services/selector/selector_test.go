package selector

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/candle/internal/models"
)

func pool(tickers ...string) []models.TickerPoolEntry {
	out := make([]models.TickerPoolEntry, len(tickers))
	for i, t := range tickers {
		out[i] = models.TickerPoolEntry{Ticker: t, Name: t + " Corp"}
	}
	return out
}

func newTestSelector(seed uint64) *Selector {
	return NewSelector(rand.New(rand.NewPCG(seed, seed)), arbor.NewLogger())
}

func TestRecentlyUsed(t *testing.T) {
	now := time.Date(2024, 4, 1, 15, 0, 0, 0, time.UTC)
	schedule := models.NewSchedule()
	schedule.Set("2023-12-01", "OLD")  // 122 days back
	schedule.Set("2024-01-02", "EDGE") // exactly 90 days back
	schedule.Set("2024-03-30", "aapl")
	schedule.Set("2024-04-10", "FUTR")
	schedule.Set("not-a-date", "BAD")

	used := RecentlyUsed(schedule, now, 90)

	assert.True(t, used.Has("AAPL"))
	assert.True(t, used.Has("EDGE"))
	assert.True(t, used.Has("FUTR"), "future dates count")
	assert.False(t, used.Has("OLD"))
	assert.False(t, used.Has("BAD"), "malformed keys are skipped")
	assert.Len(t, used, 3)
}

func TestRecentlyUsed_NilSchedule(t *testing.T) {
	assert.Empty(t, RecentlyUsed(nil, time.Now(), 90))
}

func TestPick_NeverReturnsExcluded(t *testing.T) {
	s := newTestSelector(1)
	candidates := pool("AAPL", "MSFT", "GOOG", "AMZN")
	exclude := TickerSet{}
	exclude.Add("aapl")
	exclude.Add("MSFT")

	for i := 0; i < 200; i++ {
		got, err := s.Pick(candidates, exclude)
		require.NoError(t, err)
		assert.False(t, exclude.Has(got.Ticker), "picked excluded ticker %s", got.Ticker)
	}
}

func TestPick_FallsBackToWholePool(t *testing.T) {
	s := newTestSelector(2)
	candidates := pool("AAPL", "MSFT")
	exclude := TickerSet{}.With("AAPL", "MSFT")

	got, err := s.Pick(candidates, exclude)
	require.NoError(t, err)
	assert.Contains(t, []string{"AAPL", "MSFT"}, got.Ticker)
}

func TestPick_CoversAvailable(t *testing.T) {
	s := newTestSelector(3)
	candidates := pool("AAPL", "MSFT", "GOOG")

	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		got, err := s.Pick(candidates, nil)
		require.NoError(t, err)
		seen[got.Ticker] = true
	}
	assert.Len(t, seen, 3)
}

func TestPick_EmptyPool(t *testing.T) {
	_, err := newTestSelector(4).Pick(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestTickerSet_With(t *testing.T) {
	base := TickerSet{}
	base.Add("aapl")

	extended := base.With("msft")

	assert.True(t, extended.Has("AAPL"))
	assert.True(t, extended.Has("MSFT"))
	assert.False(t, base.Has("MSFT"), "With does not modify the receiver")
}

func TestNewSelector_NilSourceIsSeeded(t *testing.T) {
	s := NewSelector(nil, arbor.NewLogger())
	require.NotNil(t, s.rng)

	exclude := TickerSet{}
	exclude.Add("AAPL")
	for i := 0; i < 20; i++ {
		got, err := s.Pick(pool("AAPL", "MSFT", "NVDA"), exclude)
		require.NoError(t, err)
		assert.NotEqual(t, "AAPL", got.Ticker)
	}
}
