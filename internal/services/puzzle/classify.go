package puzzle

import (
	"time"

	"github.com/ternarybob/candle/internal/models"
)

// Market cap buckets shown in the marketCapRange hint.
const (
	MegaCap  = "Mega Cap (>$200B)"
	LargeCap = "Large Cap ($10B-$200B)"
	MidCap   = "Mid Cap ($2B-$10B)"
	SmallCap = "Small Cap (<$2B)"
)

// ClassifyMarketCap buckets a market capitalization in dollars.
func ClassifyMarketCap(cap float64) string {
	switch {
	case cap >= 200e9:
		return MegaCap
	case cap >= 10e9:
		return LargeCap
	case cap >= 2e9:
		return MidCap
	default:
		return SmallCap
	}
}

// IPOYear derives the listing year from the first-trade timestamp.
// Seconds take precedence over milliseconds; ok is false when neither is usable.
func IPOYear(meta *models.CompanyMetadata) (int, bool) {
	if meta == nil {
		return 0, false
	}
	switch {
	case meta.FirstTradeEpochSeconds != 0:
		return time.Unix(meta.FirstTradeEpochSeconds, 0).UTC().Year(), true
	case meta.FirstTradeEpochMillis != 0:
		return time.UnixMilli(meta.FirstTradeEpochMillis).UTC().Year(), true
	default:
		return 0, false
	}
}
