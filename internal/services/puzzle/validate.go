package puzzle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/candle/internal/models"
)

// ErrNoChartData marks a puzzle without any 1m chart points.
var ErrNoChartData = errors.New("no 1m chart data")

var validate = validator.New()

// Validate checks that a puzzle may be committed to the schedule.
func Validate(p *models.Puzzle) error {
	if p == nil {
		return fmt.Errorf("nil puzzle")
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid puzzle %s: %w", p.ID, err)
	}
	if !p.HasChart(models.Period1M) {
		return fmt.Errorf("%s: %w", p.Answer.Ticker, ErrNoChartData)
	}
	return nil
}

// Edit is a manual override of hint text. Nil fields are left unchanged.
type Edit struct {
	Description *string
	FunFact1    *string
	FunFact2    *string
	Difficulty  *int `validate:"omitempty,min=1,max=5"`
}

// IsEmpty reports whether the edit changes nothing.
func (e Edit) IsEmpty() bool {
	return e.Description == nil && e.FunFact1 == nil && e.FunFact2 == nil && e.Difficulty == nil
}

// ApplyEdit returns a copy of p with the edit applied.
func ApplyEdit(p *models.Puzzle, e Edit) (*models.Puzzle, error) {
	if p == nil {
		return nil, fmt.Errorf("nil puzzle")
	}
	if e.IsEmpty() {
		return nil, fmt.Errorf("nothing to edit")
	}
	if err := validate.Struct(e); err != nil {
		return nil, fmt.Errorf("invalid edit: %w", err)
	}

	updated := *p
	if e.Description != nil {
		desc := strings.TrimSpace(*e.Description)
		if desc == "" {
			return nil, fmt.Errorf("description cannot be empty")
		}
		updated.Hints.Description = desc
	}
	if e.FunFact1 != nil {
		updated.Hints.FunFact1 = strings.TrimSpace(*e.FunFact1)
	}
	if e.FunFact2 != nil {
		updated.Hints.FunFact2 = strings.TrimSpace(*e.FunFact2)
	}
	if e.Difficulty != nil {
		updated.Difficulty = *e.Difficulty
	}
	return &updated, nil
}
