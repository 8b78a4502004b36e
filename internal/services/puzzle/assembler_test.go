package puzzle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
)

// mockMarket implements interfaces.MarketDataProvider for testing
type mockMarket struct {
	bars     map[models.Period][]models.Bar
	barErrs  map[models.Period]error
	meta     *models.CompanyMetadata
	metaErr  error
	barCalls []models.Period
}

func (m *mockMarket) GetBars(ctx context.Context, ticker string, period models.Period) ([]models.Bar, error) {
	m.barCalls = append(m.barCalls, period)
	if err := m.barErrs[period]; err != nil {
		return nil, err
	}
	return m.bars[period], nil
}

func (m *mockMarket) GetMetadata(ctx context.Context, ticker string) (*models.CompanyMetadata, error) {
	if m.metaErr != nil {
		return nil, m.metaErr
	}
	return m.meta, nil
}

// mockHints implements interfaces.HintGenerator for testing
type mockHints struct {
	text      *interfaces.HintText
	textErr   error
	rating    int
	ratingErr error
}

func (m *mockHints) Configured() bool { return m.textErr == nil }

func (m *mockHints) GenerateHints(ctx context.Context, req interfaces.HintRequest) (*interfaces.HintText, error) {
	if m.textErr != nil {
		return nil, m.textErr
	}
	return m.text, nil
}

func (m *mockHints) RateDifficulty(ctx context.Context, req interfaces.HintRequest) (int, error) {
	if m.ratingErr != nil {
		return 0, m.ratingErr
	}
	return m.rating, nil
}

func bar(day int, o, h, l, c float64) models.Bar {
	return models.Bar{Time: time.Date(2024, 1, 1+day, 0, 0, 0, 0, time.UTC), Open: o, High: h, Low: l, Close: c}
}

func newMarket() *mockMarket {
	return &mockMarket{
		bars: map[models.Period][]models.Bar{
			models.Period1M:  {bar(0, 100, 101, 99, 100), bar(1, 100, 112, 100, 110)},
			models.Period1Y:  {bar(0, 50, 60.555, 45.004, 55), bar(1, 55, 130, 54, 120)},
			models.Period5Y:  {bar(0, 20, 20, 20, 20), bar(1, 20, 40, 20, 40)},
			models.Period10Y: {bar(0, 10, 10, 10, 10)},
		},
		meta: &models.CompanyMetadata{
			Ticker:                 "AAPL",
			Name:                   "Apple Inc",
			Sector:                 "Technology",
			Industry:               "Consumer Electronics",
			Country:                "United States",
			MarketCap:              3e12,
			Summary:                "Apple Inc designs smartphones sold as AAPL. It also sells services.",
			FirstTradeEpochSeconds: time.Date(1980, 12, 12, 0, 0, 0, 0, time.UTC).Unix(),
		},
	}
}

func TestAssemble_WithGeneratedHints(t *testing.T) {
	market := newMarket()
	gen := &mockHints{
		text:   &interfaces.HintText{Description: "Makes *****.", FunFact1: "F1", FunFact2: "F2"},
		rating: 1,
	}
	a := NewAssembler(market, gen, arbor.NewLogger())

	p, err := a.Assemble(context.Background(), " aapl ")
	require.NoError(t, err)

	assert.Equal(t, "aapl", p.ID)
	assert.Equal(t, models.Answer{Ticker: "AAPL", Name: "Apple Inc"}, p.Answer)
	assert.Equal(t, "Makes *****.", p.Hints.Description)
	assert.Equal(t, "F1", p.Hints.FunFact1)
	assert.Equal(t, "F2", p.Hints.FunFact2)
	assert.Equal(t, 1, p.Difficulty)
	assert.Equal(t, MegaCap, p.Hints.MarketCapRange)
	assert.Equal(t, 1980, p.Hints.IPOYear)
	assert.Equal(t, "United States", p.Hints.HQCountry)

	assert.Equal(t, 100.0, p.BasePrice)
	assert.Equal(t, map[models.Period]float64{
		models.Period1M: 100, models.Period1Y: 55, models.Period5Y: 20, models.Period10Y: 10,
	}, p.BasePrices)
	require.Len(t, p.Charts[models.Period1M], 2)
	assert.Equal(t, 10.0, p.Charts[models.Period1M][1].Close)
	assert.Equal(t, 12.0, p.Charts[models.Period1M][1].High)

	assert.Equal(t, 130.0, p.Hints.High52w)
	assert.Equal(t, 45.0, p.Hints.Low52w)

	assert.ElementsMatch(t, models.Periods, market.barCalls)
	assert.NoError(t, Validate(p))
}

func TestAssemble_GeneratorUnavailable(t *testing.T) {
	gen := &mockHints{textErr: interfaces.ErrUnavailable, ratingErr: interfaces.ErrUnavailable}
	a := NewAssembler(newMarket(), gen, arbor.NewLogger())

	p, err := a.Assemble(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "The company designs smartphones sold as [TICKER].", p.Hints.Description)
	assert.Empty(t, p.Hints.FunFact1)
	assert.Empty(t, p.Hints.FunFact2)
	assert.Equal(t, models.DefaultDifficulty, p.Difficulty)
}

func TestAssemble_NoGenerator(t *testing.T) {
	market := newMarket()
	market.meta.Summary = ""
	a := NewAssembler(market, nil, arbor.NewLogger())

	p, err := a.Assemble(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "A publicly traded company.", p.Hints.Description)
	assert.Equal(t, 3, p.Difficulty)
}

func TestAssemble_PeriodFailureIsIsolated(t *testing.T) {
	market := newMarket()
	market.barErrs = map[models.Period]error{models.Period5Y: errors.New("timeout")}
	a := NewAssembler(market, nil, arbor.NewLogger())

	p, err := a.Assemble(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.NotNil(t, p.Charts[models.Period5Y])
	assert.Empty(t, p.Charts[models.Period5Y])
	assert.Equal(t, 0.0, p.BasePrices[models.Period5Y])
	assert.Len(t, p.Charts[models.Period1M], 2)
	assert.Len(t, p.Charts[models.Period10Y], 1)
}

func TestAssemble_MissingMetadataFields(t *testing.T) {
	market := newMarket()
	market.meta = &models.CompanyMetadata{Ticker: "XYZ"}
	a := NewAssembler(market, nil, arbor.NewLogger())

	p, err := a.Assemble(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, "XYZ", p.Answer.Name)
	assert.Equal(t, "Unknown", p.Hints.Sector)
	assert.Equal(t, "Unknown", p.Hints.Industry)
	assert.Equal(t, "Unknown", p.Hints.HQCountry)
	assert.Equal(t, SmallCap, p.Hints.MarketCapRange)
	assert.Equal(t, models.DefaultIPOYear, p.Hints.IPOYear)
}

func TestAssemble_MetadataError(t *testing.T) {
	market := newMarket()
	market.metaErr = errors.New("connection refused")
	a := NewAssembler(market, nil, arbor.NewLogger())

	_, err := a.Assemble(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestAssemble_NoMonthData(t *testing.T) {
	market := newMarket()
	market.bars[models.Period1M] = nil
	a := NewAssembler(market, nil, arbor.NewLogger())

	p, err := a.Assemble(context.Background(), "AAPL")
	require.NoError(t, err, "the assembler does not validate")

	assert.ErrorIs(t, Validate(p), ErrNoChartData)
	assert.Equal(t, 0.0, p.BasePrice)
}

func TestAssembleDefinition(t *testing.T) {
	a := NewAssembler(newMarket(), &mockHints{rating: 5}, arbor.NewLogger())
	def := SampleDefinitions()[2]

	p, err := a.AssembleDefinition(context.Background(), def)
	require.NoError(t, err)

	assert.Equal(t, "sample-2", p.ID)
	assert.Equal(t, "AAPL", p.Answer.Ticker)
	assert.Equal(t, def.Hints.Description, p.Hints.Description)
	assert.Equal(t, 1980, p.Hints.IPOYear)
	assert.Equal(t, 0, p.Difficulty, "static definitions are not rated")
	assert.Equal(t, 130.0, p.Hints.High52w)
}

func TestRegenerate(t *testing.T) {
	a := NewAssembler(newMarket(), &mockHints{
		text:   &interfaces.HintText{Description: "New", FunFact1: "N1", FunFact2: "N2"},
		rating: 4,
	}, arbor.NewLogger())

	original := &models.Puzzle{
		ID:         "aapl",
		Answer:     models.Answer{Ticker: "AAPL", Name: "Apple Inc"},
		Hints:      models.Hints{Description: "Old", FunFact1: "O1"},
		Difficulty: 2,
	}

	updated, err := a.Regenerate(context.Background(), original)
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Hints.Description)
	assert.Equal(t, 4, updated.Difficulty)
	assert.Equal(t, "Old", original.Hints.Description, "input is not mutated")
}

func TestRegenerate_KeepsTextWhenUnavailable(t *testing.T) {
	a := NewAssembler(newMarket(), &mockHints{textErr: interfaces.ErrUnavailable, rating: 4}, arbor.NewLogger())
	original := &models.Puzzle{ID: "aapl", Answer: models.Answer{Ticker: "AAPL", Name: "Apple Inc"}, Hints: models.Hints{Description: "Old"}}

	updated, err := a.Regenerate(context.Background(), original)
	require.NoError(t, err)
	assert.Equal(t, "Old", updated.Hints.Description)
	assert.Equal(t, 4, updated.Difficulty)
}

func TestRegenerate_NothingAvailable(t *testing.T) {
	a := NewAssembler(newMarket(), nil, arbor.NewLogger())

	_, err := a.Regenerate(context.Background(), &models.Puzzle{ID: "aapl"})
	assert.ErrorIs(t, err, interfaces.ErrUnavailable)
}
