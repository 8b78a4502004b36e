// Package puzzle builds puzzle documents from market data and hint text.
package puzzle

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
	"github.com/ternarybob/candle/internal/services/chart"
	"github.com/ternarybob/candle/internal/services/hints"
)

const unknown = "Unknown"

// Assembler combines metadata, hint text and normalized charts into a Puzzle.
type Assembler struct {
	market interfaces.MarketDataProvider
	hints  interfaces.HintGenerator
	logger arbor.ILogger
}

// NewAssembler creates a puzzle assembler. hintGen may be nil, in which case the
// fallback description and default difficulty are always used.
func NewAssembler(market interfaces.MarketDataProvider, hintGen interfaces.HintGenerator, logger arbor.ILogger) *Assembler {
	return &Assembler{
		market: market,
		hints:  hintGen,
		logger: logger,
	}
}

// Assemble builds a puzzle for ticker from a metadata lookup plus generated hints.
func (a *Assembler) Assemble(ctx context.Context, ticker string) (*models.Puzzle, error) {
	ticker = common.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("empty ticker")
	}

	a.logger.Info().Str("ticker", ticker).Msg("Assembling puzzle")

	meta, err := a.market.GetMetadata(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("metadata for %s: %w", ticker, err)
	}

	name := firstNonEmpty(meta.Name, ticker)
	sector := firstNonEmpty(meta.Sector, unknown)
	industry := firstNonEmpty(meta.Industry, unknown)
	country := firstNonEmpty(meta.Country, unknown)

	ipoYear, hasIPO := IPOYear(meta)

	req := interfaces.HintRequest{
		Ticker:   ticker,
		Name:     name,
		Sector:   sector,
		Industry: industry,
		Country:  country,
		IPOYear:  ipoYear,
	}

	fields := models.Hints{
		Sector:         sector,
		Industry:       industry,
		MarketCapRange: ClassifyMarketCap(meta.MarketCap),
		HQCountry:      country,
		IPOYear:        models.DefaultIPOYear,
	}
	if hasIPO {
		fields.IPOYear = ipoYear
	}

	if text, err := a.generateHints(ctx, req); err == nil {
		fields.Description = text.Description
		fields.FunFact1 = text.FunFact1
		fields.FunFact2 = text.FunFact2
	} else {
		a.logger.Info().Str("ticker", ticker).Msg("Using fallback description")
		fields.Description = hints.FallbackDescription(meta.Summary, name, ticker)
	}

	difficulty := a.rateDifficulty(ctx, req)

	def := models.PuzzleDefinition{
		ID:     common.PuzzleID(ticker),
		Ticker: ticker,
		Name:   name,
		Hints:  fields,
	}

	puzzle := a.build(ctx, def)
	puzzle.Difficulty = difficulty
	return puzzle, nil
}

// AssembleDefinition builds a puzzle from hints fixed up front; only charts and the
// 52-week range are fetched.
func (a *Assembler) AssembleDefinition(ctx context.Context, def models.PuzzleDefinition) (*models.Puzzle, error) {
	def.Ticker = common.NormalizeTicker(def.Ticker)
	if def.Ticker == "" {
		return nil, fmt.Errorf("empty ticker in definition %q", def.ID)
	}
	if def.ID == "" {
		def.ID = common.PuzzleID(def.Ticker)
	}
	if def.Name == "" {
		def.Name = def.Ticker
	}

	a.logger.Info().Str("ticker", def.Ticker).Str("id", def.ID).Msg("Assembling puzzle from definition")
	return a.build(ctx, def), nil
}

// build fetches every chart period independently; a failed period leaves an
// empty chart and a zero base price.
func (a *Assembler) build(ctx context.Context, def models.PuzzleDefinition) *models.Puzzle {
	charts := make(map[models.Period][]models.ChartPoint, len(models.Periods))
	basePrices := make(map[models.Period]float64, len(models.Periods))
	var yearBars []models.Bar

	for _, period := range models.Periods {
		bars, err := a.market.GetBars(ctx, def.Ticker, period)
		if err != nil {
			a.logger.Warn().
				Err(err).
				Str("ticker", def.Ticker).
				Str("period", string(period)).
				Msg("Failed to fetch chart period")
			charts[period] = []models.ChartPoint{}
			basePrices[period] = 0
			continue
		}

		points, base := chart.Normalize(bars)
		if points == nil {
			points = []models.ChartPoint{}
		}
		charts[period] = points
		basePrices[period] = chart.Round2(base)

		if period == models.Period1Y {
			yearBars = bars
		}

		a.logger.Debug().
			Str("ticker", def.Ticker).
			Str("period", string(period)).
			Int("points", len(points)).
			Msg("Normalized chart period")
	}

	fields := def.Hints
	fields.High52w, fields.Low52w = chart.HighLow52w(yearBars)

	return &models.Puzzle{
		ID:         def.ID,
		Answer:     models.Answer{Ticker: def.Ticker, Name: def.Name},
		BasePrice:  basePrices[models.Period1M],
		BasePrices: basePrices,
		Charts:     charts,
		Hints:      fields,
	}
}

// Regenerate refreshes the generated text and difficulty of an existing puzzle.
// Fields the generator cannot produce are left as they were.
func (a *Assembler) Regenerate(ctx context.Context, puzzle *models.Puzzle) (*models.Puzzle, error) {
	if puzzle == nil {
		return nil, fmt.Errorf("nil puzzle")
	}

	req := interfaces.HintRequest{
		Ticker:   puzzle.Answer.Ticker,
		Name:     puzzle.Answer.Name,
		Sector:   puzzle.Hints.Sector,
		Industry: puzzle.Hints.Industry,
		Country:  puzzle.Hints.HQCountry,
		IPOYear:  puzzle.Hints.IPOYear,
	}

	updated := *puzzle
	changed := false

	text, err := a.generateHints(ctx, req)
	if err == nil {
		updated.Hints.Description = text.Description
		updated.Hints.FunFact1 = text.FunFact1
		updated.Hints.FunFact2 = text.FunFact2
		changed = true
	} else {
		a.logger.Warn().Err(err).Str("ticker", req.Ticker).Msg("Keeping existing description")
	}

	if a.hints != nil {
		if rating, err := a.hints.RateDifficulty(ctx, req); err == nil {
			updated.Difficulty = rating
			changed = true
		}
	}

	if !changed {
		return nil, fmt.Errorf("regenerate %s: %w", req.Ticker, interfaces.ErrUnavailable)
	}
	return &updated, nil
}

func (a *Assembler) generateHints(ctx context.Context, req interfaces.HintRequest) (*interfaces.HintText, error) {
	if a.hints == nil {
		return nil, interfaces.ErrUnavailable
	}
	return a.hints.GenerateHints(ctx, req)
}

func (a *Assembler) rateDifficulty(ctx context.Context, req interfaces.HintRequest) int {
	if a.hints == nil {
		return models.DefaultDifficulty
	}
	rating, err := a.hints.RateDifficulty(ctx, req)
	if err != nil {
		if !errors.Is(err, interfaces.ErrUnavailable) {
			a.logger.Warn().Err(err).Str("ticker", req.Ticker).Msg("Difficulty rating failed")
		}
		return models.DefaultDifficulty
	}
	return rating
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
