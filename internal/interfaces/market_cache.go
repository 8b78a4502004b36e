package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/candle/internal/models"
)

// MarketCacheStorage keeps provider responses between runs.
// Lookups of absent keys return ErrNotFound.
type MarketCacheStorage interface {
	GetBars(ctx context.Context, ticker string, period models.Period) ([]models.Bar, time.Time, error)
	PutBars(ctx context.Context, ticker string, period models.Period, bars []models.Bar, storedAt time.Time) error

	GetMetadata(ctx context.Context, ticker string) (*models.CompanyMetadata, time.Time, error)
	PutMetadata(ctx context.Context, meta *models.CompanyMetadata, storedAt time.Time) error

	// DeleteTicker drops every cached entry for ticker.
	DeleteTicker(ctx context.Context, ticker string) error
}
