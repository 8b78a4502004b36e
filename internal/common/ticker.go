// Package common provides shared utilities across the application.
package common

import (
	"regexp"
	"strings"
)

// DefaultExchange is the EODHD exchange suffix used when a ticker carries none.
const DefaultExchange = "US"

var tickerDisallowed = regexp.MustCompile(`[^A-Za-z0-9.\-]`)

// NormalizeTicker uppercases a ticker and strips whitespace and punctuation
// other than '.' and '-' (class shares such as "BRK.B").
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(tickerDisallowed.ReplaceAllString(strings.TrimSpace(ticker), ""))
}

// EODHDSymbol returns the EODHD API symbol for a ticker.
// Example: "brk.b" -> "BRK-B.US"
func EODHDSymbol(ticker, exchange string) string {
	code := NormalizeTicker(ticker)
	if code == "" {
		return ""
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	// EODHD writes share classes with a dash
	code = strings.ReplaceAll(code, ".", "-")
	return code + "." + strings.ToUpper(exchange)
}

// DocumentName returns the file name of the puzzle document for a ticker.
// Example: "AAPL" -> "aapl.json"
func DocumentName(ticker string) string {
	return strings.ToLower(NormalizeTicker(ticker)) + ".json"
}

// PuzzleID returns the puzzle identifier derived from a ticker.
func PuzzleID(ticker string) string {
	return strings.ToLower(NormalizeTicker(ticker))
}
