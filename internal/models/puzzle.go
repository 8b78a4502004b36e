package models

// DefaultIPOYear is used when the first-trade date of a company cannot be determined.
const DefaultIPOYear = 2000

// DefaultDifficulty is the neutral rating used when no rater is available.
const DefaultDifficulty = 3

// Answer identifies the company a puzzle is about.
type Answer struct {
	Ticker string `json:"ticker" validate:"required"`
	Name   string `json:"name" validate:"required"`
}

// Hints are the clues players can buy.
type Hints struct {
	Sector         string  `json:"sector"`
	Industry       string  `json:"industry"`
	MarketCapRange string  `json:"marketCapRange"`
	HQCountry      string  `json:"hqCountry"`
	Description    string  `json:"description"`
	FunFact1       string  `json:"funFact1"`
	FunFact2       string  `json:"funFact2"`
	IPOYear        int     `json:"ipoYear"`
	High52w        float64 `json:"high52w"`
	Low52w         float64 `json:"low52w"`
}

// Puzzle is the persisted document for one ticker.
type Puzzle struct {
	ID         string                  `json:"id" validate:"required"`
	Answer     Answer                  `json:"answer"`
	BasePrice  float64                 `json:"basePrice"`
	BasePrices map[Period]float64      `json:"basePrices"`
	Charts     map[Period][]ChartPoint `json:"charts"`
	Hints      Hints                   `json:"hints"`
	Difficulty int                     `json:"difficulty,omitempty" validate:"omitempty,min=1,max=5"`
}

// HasChart reports whether the puzzle carries at least one point for the period.
func (p *Puzzle) HasChart(period Period) bool {
	return p != nil && len(p.Charts[period]) > 0
}

// PuzzleDefinition describes a puzzle whose hints are fixed up front rather than
// looked up from the market-data provider.
type PuzzleDefinition struct {
	ID     string
	Ticker string
	Name   string
	Hints  Hints
}
