package chart

import (
	"math"

	"github.com/shopspring/decimal"
)

// SanitizeFloat returns def when v is NaN or infinite.
func SanitizeFloat(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Round2 rounds to two decimal places, half away from zero.
// NaN and infinities are sanitized to 0 first.
func Round2(v float64) float64 {
	v = SanitizeFloat(v, 0)
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// PercentChange returns the rounded percentage deviation of value from base.
// A zero base is degenerate and yields 0.
func PercentChange(value, base float64) float64 {
	if base == 0 {
		return 0
	}
	return Round2((value - base) / base * 100)
}
