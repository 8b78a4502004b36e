package models

import (
	"encoding/json"
	"fmt"
)

// Period identifies one of the chart ranges shown to players.
type Period string

const (
	Period1M  Period = "1m"
	Period1Y  Period = "1y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
)

// Periods lists every chart period in the order the assembler fetches them.
var Periods = []Period{Period1Y, Period1M, Period5Y, Period10Y}

// ChartPoint is one bar expressed as percentage deviation from the period's base price.
// It serializes as a compact array: [unixTs, openPct, highPct, lowPct, closePct].
type ChartPoint struct {
	Time  int64
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// ClosePoint is the single-value chart variant: [unixTs, closePct].
// It is only ever produced by projecting a ChartPoint.
type ClosePoint struct {
	Time  int64
	Close float64
}

func (p ChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Time, p.Open, p.High, p.Low, p.Close})
}

// UnmarshalJSON accepts both the OHLC form and the legacy close-only form.
// Close-only points are widened with open/high/low equal to close.
func (p *ChartPoint) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("chart point: %w", err)
	}
	switch len(raw) {
	case 5:
		*p = ChartPoint{Time: int64(raw[0]), Open: raw[1], High: raw[2], Low: raw[3], Close: raw[4]}
	case 2:
		*p = ChartPoint{Time: int64(raw[0]), Open: raw[1], High: raw[1], Low: raw[1], Close: raw[1]}
	default:
		return fmt.Errorf("chart point: expected 2 or 5 values, got %d", len(raw))
	}
	return nil
}

func (p ClosePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Time, p.Close})
}
