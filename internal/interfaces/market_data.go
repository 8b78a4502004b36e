package interfaces

import (
	"context"

	"github.com/ternarybob/candle/internal/models"
)

// MarketDataProvider supplies price history and company profiles.
// "No data" is an empty result; errors are reserved for transport or API failures.
type MarketDataProvider interface {
	// GetBars returns the ordered bar history for ticker over period.
	GetBars(ctx context.Context, ticker string, period models.Period) ([]models.Bar, error)

	// GetMetadata returns the company profile for ticker.
	GetMetadata(ctx context.Context, ticker string) (*models.CompanyMetadata, error)
}
