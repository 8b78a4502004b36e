// Package selector picks the next ticker while enforcing the no-repeat window.
package selector

import (
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/models"
)

// ErrEmptyPool is returned when there is nothing to pick from.
var ErrEmptyPool = errors.New("ticker pool is empty")

// TickerSet is a set of uppercased tickers.
type TickerSet map[string]struct{}

// Add inserts ticker, uppercased.
func (s TickerSet) Add(ticker string) {
	s[strings.ToUpper(ticker)] = struct{}{}
}

// Has reports whether ticker is in the set, ignoring case.
func (s TickerSet) Has(ticker string) bool {
	_, ok := s[strings.ToUpper(ticker)]
	return ok
}

// With returns a copy of the set plus the given tickers.
func (s TickerSet) With(tickers ...string) TickerSet {
	out := make(TickerSet, len(s)+len(tickers))
	for t := range s {
		out[t] = struct{}{}
	}
	for _, t := range tickers {
		out.Add(t)
	}
	return out
}

// RecentlyUsed returns the tickers scheduled on or after the day lookbackDays
// before now, future dates included. Malformed date keys are skipped.
func RecentlyUsed(schedule *models.Schedule, now time.Time, lookbackDays int) TickerSet {
	used := make(TickerSet)
	if schedule == nil {
		return used
	}
	cutoff := models.Day(now).AddDate(0, 0, -lookbackDays)
	for _, e := range schedule.Entries() {
		d, err := models.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if !d.Before(cutoff) {
			used.Add(e.Ticker)
		}
	}
	return used
}

// Selector draws tickers uniformly at random.
type Selector struct {
	rng    *rand.Rand
	logger arbor.ILogger
}

// NewSelector creates a selector. A nil rng uses a randomly seeded source.
func NewSelector(rng *rand.Rand, logger arbor.ILogger) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{rng: rng, logger: logger}
}

// Pick returns a random pool entry not in exclude. When every entry is excluded
// the whole pool is used instead, so a small pool never blocks progress.
func (s *Selector) Pick(pool []models.TickerPoolEntry, exclude TickerSet) (models.TickerPoolEntry, error) {
	if len(pool) == 0 {
		return models.TickerPoolEntry{}, ErrEmptyPool
	}

	available := make([]models.TickerPoolEntry, 0, len(pool))
	for _, entry := range pool {
		if !exclude.Has(entry.Ticker) {
			available = append(available, entry)
		}
	}

	if len(available) == 0 {
		s.logger.Warn().
			Int("pool_size", len(pool)).
			Int("excluded", len(exclude)).
			Msg("All tickers used recently, picking from the whole pool")
		available = pool
	}

	return available[s.rng.IntN(len(available))], nil
}
