package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// barsEntry is the stored form of one ticker/period history.
type barsEntry struct {
	Key      string `badgerhold:"key"`
	Ticker   string `badgerholdIndex:"Ticker"`
	Period   string
	Bars     []models.Bar
	StoredAt time.Time
}

// metadataEntry is the stored form of one company profile.
type metadataEntry struct {
	Key      string `badgerhold:"key"`
	Ticker   string `badgerholdIndex:"Ticker"`
	Metadata models.CompanyMetadata
	StoredAt time.Time
}

// MarketCacheStorage implements interfaces.MarketCacheStorage for Badger
type MarketCacheStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewMarketCacheStorage creates a new MarketCacheStorage instance
func NewMarketCacheStorage(db *BadgerDB, logger arbor.ILogger) interfaces.MarketCacheStorage {
	return &MarketCacheStorage{
		db:     db,
		logger: logger,
	}
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func barsKey(ticker string, period models.Period) string {
	return "bars:" + normalizeTicker(ticker) + ":" + string(period)
}

func metadataKey(ticker string) string {
	return "meta:" + normalizeTicker(ticker)
}

// GetBars returns the cached history for ticker/period and when it was stored
func (s *MarketCacheStorage) GetBars(ctx context.Context, ticker string, period models.Period) ([]models.Bar, time.Time, error) {
	var entry barsEntry
	err := s.db.Store().Get(barsKey(ticker, period), &entry)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, time.Time{}, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to get cached bars: %w", err)
	}
	return entry.Bars, entry.StoredAt, nil
}

// PutBars stores the history for ticker/period
func (s *MarketCacheStorage) PutBars(ctx context.Context, ticker string, period models.Period, bars []models.Bar, storedAt time.Time) error {
	key := barsKey(ticker, period)
	entry := barsEntry{
		Key:      key,
		Ticker:   normalizeTicker(ticker),
		Period:   string(period),
		Bars:     bars,
		StoredAt: storedAt,
	}
	if err := s.db.Store().Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to cache bars: %w", err)
	}
	return nil
}

// GetMetadata returns the cached company profile and when it was stored
func (s *MarketCacheStorage) GetMetadata(ctx context.Context, ticker string) (*models.CompanyMetadata, time.Time, error) {
	var entry metadataEntry
	err := s.db.Store().Get(metadataKey(ticker), &entry)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, time.Time{}, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to get cached metadata: %w", err)
	}
	meta := entry.Metadata
	return &meta, entry.StoredAt, nil
}

// PutMetadata stores a company profile
func (s *MarketCacheStorage) PutMetadata(ctx context.Context, meta *models.CompanyMetadata, storedAt time.Time) error {
	if meta == nil {
		return fmt.Errorf("nil metadata")
	}
	key := metadataKey(meta.Ticker)
	entry := metadataEntry{
		Key:      key,
		Ticker:   normalizeTicker(meta.Ticker),
		Metadata: *meta,
		StoredAt: storedAt,
	}
	if err := s.db.Store().Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to cache metadata: %w", err)
	}
	return nil
}

// DeleteTicker removes all cached entries for ticker
func (s *MarketCacheStorage) DeleteTicker(ctx context.Context, ticker string) error {
	ticker = normalizeTicker(ticker)
	if err := s.db.Store().DeleteMatching(&barsEntry{}, badgerhold.Where("Ticker").Eq(ticker)); err != nil {
		return fmt.Errorf("failed to delete cached bars: %w", err)
	}
	err := s.db.Store().Delete(metadataKey(ticker), &metadataEntry{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete cached metadata: %w", err)
	}
	s.logger.Debug().Str("ticker", ticker).Msg("Cleared cached market data")
	return nil
}
