package puzzle

import (
	"github.com/ternarybob/candle/internal/models"
)

// SampleDefinitions are the bundled puzzles with hand-written hints.
func SampleDefinitions() []models.PuzzleDefinition {
	return []models.PuzzleDefinition{
		{
			ID:     "sample-0",
			Ticker: "NVDA",
			Name:   "NVIDIA Corporation",
			Hints: models.Hints{
				Sector:         "Technology",
				Industry:       "Semiconductors",
				MarketCapRange: MegaCap,
				HQCountry:      "United States",
				Description:    "Designs and manufactures graphics processing units and system-on-chip products for gaming, data centers, and AI applications.",
				IPOYear:        1999,
			},
		},
		{
			ID:     "sample-1",
			Ticker: "TSLA",
			Name:   "Tesla, Inc.",
			Hints: models.Hints{
				Sector:         "Consumer Discretionary",
				Industry:       "Automobile Manufacturers",
				MarketCapRange: MegaCap,
				HQCountry:      "United States",
				Description:    "Designs, develops, manufactures, and sells fully electric vehicles, energy generation and storage systems, and related services worldwide.",
				IPOYear:        2010,
			},
		},
		{
			ID:     "sample-2",
			Ticker: "AAPL",
			Name:   "Apple Inc.",
			Hints: models.Hints{
				Sector:         "Technology",
				Industry:       "Consumer Electronics",
				MarketCapRange: MegaCap,
				HQCountry:      "United States",
				Description:    "Designs, manufactures, and markets smartphones, personal computers, tablets, wearables, and accessories worldwide. Also operates digital content stores and streaming services.",
				IPOYear:        1980,
			},
		},
	}
}
