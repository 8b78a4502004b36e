package models

// CompanyMetadata is the static company profile returned by the market-data provider.
type CompanyMetadata struct {
	Ticker    string
	Name      string
	Sector    string
	Industry  string
	Country   string
	MarketCap float64

	// Summary is the provider's long business summary, used for the fallback description.
	Summary string

	// First trade timestamp; seconds take precedence over milliseconds.
	FirstTradeEpochSeconds int64
	FirstTradeEpochMillis  int64
}

// TickerPoolEntry is one candidate in the pool tickers are drawn from.
type TickerPoolEntry struct {
	Ticker string `json:"ticker" yaml:"ticker"`
	Name   string `json:"name" yaml:"name"`
	Sector string `json:"sector,omitempty" yaml:"sector,omitempty"`
}
