package models

import (
	"math"
	"time"
)

// Bar is one period's price record as returned by a market-data provider.
// A NaN field marks a value the provider did not report.
type Bar struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// HasClose reports whether the bar carries a usable close price.
func (b Bar) HasClose() bool {
	return !math.IsNaN(b.Close) && !math.IsInf(b.Close, 0)
}
