package eodhd

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
)

// Provider adapts the EODHD client to interfaces.MarketDataProvider.
type Provider struct {
	client   *Client
	exchange string
	logger   arbor.ILogger
	now      func() time.Time
}

var _ interfaces.MarketDataProvider = (*Provider)(nil)

// NewProvider creates a market data provider backed by EODHD.
func NewProvider(client *Client, exchange string, logger arbor.ILogger) *Provider {
	if exchange == "" {
		exchange = common.DefaultExchange
	}
	return &Provider{
		client:   client,
		exchange: exchange,
		logger:   logger,
		now:      time.Now,
	}
}

// PeriodStart returns the first day of history fetched for period.
// The zero time means the full available history.
func PeriodStart(now time.Time, period models.Period) time.Time {
	day := models.Day(now)
	switch period {
	case models.Period1M:
		return day.AddDate(0, -1, 0)
	case models.Period1Y:
		return day.AddDate(-1, 0, 0)
	case models.Period5Y:
		return day.AddDate(-5, 0, 0)
	default:
		// 10y charts use the full listing history
		return time.Time{}
	}
}

// GetBars returns daily bars for ticker over period, oldest first.
// An unknown symbol yields an empty result rather than an error.
func (p *Provider) GetBars(ctx context.Context, ticker string, period models.Period) ([]models.Bar, error) {
	symbol := common.EODHDSymbol(ticker, p.exchange)
	if symbol == "" {
		return nil, fmt.Errorf("empty ticker")
	}

	var opts []QueryOption
	if from := PeriodStart(p.now(), period); !from.IsZero() {
		opts = append(opts, WithFrom(from))
	}

	eod, err := p.client.GetEOD(ctx, symbol, opts...)
	if err != nil {
		if IsNotFound(err) {
			p.logger.Warn().Str("symbol", symbol).Str("period", string(period)).Msg("No price history for symbol")
			return nil, nil
		}
		return nil, fmt.Errorf("fetch %s bars for %s: %w", period, symbol, err)
	}

	bars := make([]models.Bar, 0, len(eod))
	for _, d := range eod {
		if d.Date.IsZero() {
			continue
		}
		bars = append(bars, models.Bar{
			Time:  d.Date,
			Open:  valueOrNaN(d.Open),
			High:  valueOrNaN(d.High),
			Low:   valueOrNaN(d.Low),
			Close: valueOrNaN(d.Close),
		})
	}

	p.logger.Debug().
		Str("symbol", symbol).
		Str("period", string(period)).
		Int("bars", len(bars)).
		Msg("Fetched price history")

	return bars, nil
}

// GetMetadata returns the company profile for ticker.
func (p *Provider) GetMetadata(ctx context.Context, ticker string) (*models.CompanyMetadata, error) {
	symbol := common.EODHDSymbol(ticker, p.exchange)
	if symbol == "" {
		return nil, fmt.Errorf("empty ticker")
	}

	f, err := p.client.GetFundamentals(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch fundamentals for %s: %w", symbol, err)
	}

	meta := &models.CompanyMetadata{Ticker: common.NormalizeTicker(ticker)}

	if g := f.General; g != nil {
		meta.Name = g.Name
		meta.Sector = firstNonEmpty(g.Sector, g.GicSector)
		meta.Industry = firstNonEmpty(g.Industry, g.GicIndustry)
		meta.Country = g.CountryName
		meta.Summary = g.Description
		if g.IPODate != "" {
			if t, err := time.Parse("2006-01-02", g.IPODate); err == nil {
				meta.FirstTradeEpochSeconds = t.Unix()
			}
		}
	}
	if h := f.Highlights; h != nil {
		meta.MarketCap = h.MarketCapitalization
	}

	return meta, nil
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
