// Package chart turns raw price history into the anonymized percentage
// series shipped with each puzzle.
package chart

import (
	"math"

	"github.com/ternarybob/candle/internal/models"
)

// Normalize converts bars into percentage deviations from the first usable close.
//
// Bars with a missing, non-finite or zero close are dropped before the base is
// chosen, so a leading zero close never becomes the base. An open, high or low
// the provider did not report is taken to equal the bar's close.
// Returns (nil, 0) when no usable bar remains.
func Normalize(bars []models.Bar) ([]models.ChartPoint, float64) {
	usable := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if !b.HasClose() || b.Close == 0 {
			continue
		}
		usable = append(usable, b)
	}
	if len(usable) == 0 {
		return nil, 0
	}

	base := usable[0].Close
	if base == 0 {
		return nil, 0
	}

	points := make([]models.ChartPoint, 0, len(usable))
	for _, b := range usable {
		points = append(points, models.ChartPoint{
			Time:  b.Time.Unix(),
			Open:  PercentChange(orClose(b.Open, b.Close), base),
			High:  PercentChange(orClose(b.High, b.Close), base),
			Low:   PercentChange(orClose(b.Low, b.Close), base),
			Close: PercentChange(b.Close, base),
		})
	}
	return points, base
}

// CloseSeries projects OHLC points onto the close-only form.
func CloseSeries(points []models.ChartPoint) []models.ClosePoint {
	out := make([]models.ClosePoint, len(points))
	for i, p := range points {
		out[i] = models.ClosePoint{Time: p.Time, Close: p.Close}
	}
	return out
}

// HighLow52w returns the highest high and lowest low of a one-year series,
// each rounded to two decimals, or (0, 0) when the series has no usable values.
func HighLow52w(bars []models.Bar) (float64, float64) {
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, b := range bars {
		if h := orClose(b.High, b.Close); !math.IsNaN(h) && !math.IsInf(h, 0) && h > high {
			high = h
		}
		if l := orClose(b.Low, b.Close); !math.IsNaN(l) && !math.IsInf(l, 0) && l < low {
			low = l
		}
	}
	return Round2(high), Round2(low)
}

func orClose(v, close float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return close
	}
	return v
}
