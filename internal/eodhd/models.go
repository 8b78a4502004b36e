package eodhd

import (
	"time"
)

// EODData represents a single day's end-of-day price data.
// Prices are pointers because EODHD emits null for missing fields.
type EODData struct {
	Date          time.Time `json:"-"`
	DateStr       string    `json:"date"`
	Open          *float64  `json:"open"`
	High          *float64  `json:"high"`
	Low           *float64  `json:"low"`
	Close         *float64  `json:"close"`
	AdjustedClose *float64  `json:"adjusted_close"`
	Volume        int64     `json:"volume"`
}

// EODResponse is a slice of EODData.
type EODResponse []EODData

// FundamentalsResponse holds the fundamentals sections requested by GetFundamentals.
type FundamentalsResponse struct {
	General    *GeneralInfo `json:"General"`
	Highlights *Highlights  `json:"Highlights"`
}

// GeneralInfo contains general company information.
type GeneralInfo struct {
	Code        string `json:"Code"`
	Type        string `json:"Type"`
	Name        string `json:"Name"`
	Exchange    string `json:"Exchange"`
	CountryName string `json:"CountryName"`
	CountryISO  string `json:"CountryISO"`
	IPODate     string `json:"IPODate"`
	Sector      string `json:"Sector"`
	Industry    string `json:"Industry"`
	GicSector   string `json:"GicSector"`
	GicIndustry string `json:"GicIndustry"`
	Description string `json:"Description"`
	Address     string `json:"Address"`
	WebURL      string `json:"WebURL"`
}

// Highlights contains key financial highlights.
type Highlights struct {
	MarketCapitalization float64 `json:"MarketCapitalization"`
}
