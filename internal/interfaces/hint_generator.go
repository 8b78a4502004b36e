package interfaces

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by a HintGenerator that has no credential, was rate
// limited past its retry budget, or failed outright.
var ErrUnavailable = errors.New("text generation unavailable")

// HintRequest carries what the generator knows about the company.
type HintRequest struct {
	Ticker   string
	Name     string
	Sector   string
	Industry string
	Country  string
	IPOYear  int
}

// HintText is a generated description plus two fun facts, with giveaway terms
// already redacted by the generator.
type HintText struct {
	Description string
	FunFact1    string
	FunFact2    string
}

// HintGenerator produces puzzle hint text and difficulty ratings.
type HintGenerator interface {
	// Configured reports whether a credential is present.
	Configured() bool

	// GenerateHints returns redacted description and fun facts, or ErrUnavailable.
	GenerateHints(ctx context.Context, req HintRequest) (*HintText, error)

	// RateDifficulty returns a rating in 1..5, or ErrUnavailable.
	RateDifficulty(ctx context.Context, req HintRequest) (int, error)
}
