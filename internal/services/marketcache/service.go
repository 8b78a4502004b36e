// Package marketcache keeps market-data responses in a local store so repeated
// runs on the same day do not spend provider quota twice.
package marketcache

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
)

// Service is a read-through cache in front of a MarketDataProvider.
type Service struct {
	provider interfaces.MarketDataProvider
	storage  interfaces.MarketCacheStorage
	ttl      time.Duration
	logger   arbor.ILogger
	now      func() time.Time
}

// NewService creates a new cache service. A non-positive ttl disables reads
// from the cache while still recording fresh responses.
func NewService(provider interfaces.MarketDataProvider, storage interfaces.MarketCacheStorage, ttl time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		provider: provider,
		storage:  storage,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// IsFresh reports whether an entry stored at storedAt can still be served.
func (s *Service) IsFresh(storedAt time.Time) bool {
	if s.ttl <= 0 || storedAt.IsZero() {
		return false
	}
	return s.now().Sub(storedAt) < s.ttl
}

// GetBars returns cached bars when fresh, otherwise asks the provider.
// Empty results are not cached so a later run can retry them.
func (s *Service) GetBars(ctx context.Context, ticker string, period models.Period) ([]models.Bar, error) {
	bars, storedAt, err := s.storage.GetBars(ctx, ticker, period)
	switch {
	case err == nil && s.IsFresh(storedAt):
		s.logger.Debug().Str("ticker", ticker).Str("period", string(period)).Msg("Market cache hit")
		return bars, nil
	case err != nil && !errors.Is(err, interfaces.ErrNotFound):
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Market cache read failed")
	}

	bars, err = s.provider.GetBars(ctx, ticker, period)
	if err != nil {
		return nil, err
	}
	if len(bars) > 0 {
		if err := s.storage.PutBars(ctx, ticker, period, bars, s.now()); err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Market cache write failed")
		}
	}
	return bars, nil
}

// GetMetadata returns the cached company profile when fresh, otherwise asks the provider.
func (s *Service) GetMetadata(ctx context.Context, ticker string) (*models.CompanyMetadata, error) {
	meta, storedAt, err := s.storage.GetMetadata(ctx, ticker)
	switch {
	case err == nil && s.IsFresh(storedAt):
		s.logger.Debug().Str("ticker", ticker).Msg("Market cache hit for metadata")
		return meta, nil
	case err != nil && !errors.Is(err, interfaces.ErrNotFound):
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Market cache read failed")
	}

	meta, err = s.provider.GetMetadata(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		if meta.Ticker == "" {
			meta.Ticker = ticker
		}
		if err := s.storage.PutMetadata(ctx, meta, s.now()); err != nil {
			s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Market cache write failed")
		}
	}
	return meta, nil
}

// Invalidate drops everything cached for ticker.
func (s *Service) Invalidate(ctx context.Context, ticker string) error {
	return s.storage.DeleteTicker(ctx, ticker)
}
