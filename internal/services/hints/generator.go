package hints

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/services/llm"
)

// Generation parameters for the two prompts.
const (
	descriptionTemperature = 0.7
	descriptionMaxTokens   = 500
	difficultyTemperature  = 0.3
	difficultyMaxTokens    = 10
)

// Generator implements interfaces.HintGenerator on top of an LLM provider.
type Generator struct {
	provider           llm.Provider
	descriptionTimeout time.Duration
	difficultyTimeout  time.Duration
	logger             arbor.ILogger
}

var _ interfaces.HintGenerator = (*Generator)(nil)

// NewGenerator creates a hint generator. provider may be nil, in which case the
// generator reports itself unconfigured.
func NewGenerator(provider llm.Provider, config *common.Config, logger arbor.ILogger) *Generator {
	descriptionTimeout := config.Gemini.Timeout
	if config.LLM.Provider == common.LLMProviderClaude {
		descriptionTimeout = config.Claude.Timeout
	}

	return &Generator{
		provider:           provider,
		descriptionTimeout: common.ParseDurationOr(descriptionTimeout, 45*time.Second),
		difficultyTimeout:  common.ParseDurationOr(config.LLM.DifficultyTimeout, 30*time.Second),
		logger:             logger,
	}
}

// Configured reports whether the underlying provider has a credential.
func (g *Generator) Configured() bool {
	return g.provider != nil && g.provider.Configured()
}

// GenerateHints returns a redacted description and two fun facts.
// Any failure, including a missing credential, is reported as ErrUnavailable.
func (g *Generator) GenerateHints(ctx context.Context, req interfaces.HintRequest) (*interfaces.HintText, error) {
	if !g.Configured() {
		g.logger.Debug().Str("ticker", req.Ticker).Msg("No LLM credential, skipping AI description")
		return nil, interfaces.ErrUnavailable
	}

	resp, err := g.provider.GenerateContent(ctx, &llm.ContentRequest{
		Prompt:      DescriptionPrompt(req),
		Temperature: descriptionTemperature,
		MaxTokens:   descriptionMaxTokens,
		Timeout:     g.descriptionTimeout,
	})
	if err != nil {
		g.logger.Warn().Err(err).Str("ticker", req.Ticker).Msg("Description generation failed")
		return nil, fmt.Errorf("%w: %v", interfaces.ErrUnavailable, err)
	}

	text, err := ParseHintText(resp.Text)
	if err != nil {
		g.logger.Warn().Err(err).Str("ticker", req.Ticker).Msg("Description response unusable")
		return nil, fmt.Errorf("%w: %v", interfaces.ErrUnavailable, err)
	}

	g.logger.Info().
		Str("ticker", req.Ticker).
		Str("description", truncate(text.Description, 80)).
		Msg("Generated description")

	return text, nil
}

// RateDifficulty returns a 1..5 rating, or ErrUnavailable.
func (g *Generator) RateDifficulty(ctx context.Context, req interfaces.HintRequest) (int, error) {
	if !g.Configured() {
		return 0, interfaces.ErrUnavailable
	}

	resp, err := g.provider.GenerateContent(ctx, &llm.ContentRequest{
		Prompt:      DifficultyPrompt(req),
		Temperature: difficultyTemperature,
		MaxTokens:   difficultyMaxTokens,
		Timeout:     g.difficultyTimeout,
	})
	if err != nil {
		g.logger.Warn().Err(err).Str("ticker", req.Ticker).Msg("Difficulty rating failed")
		return 0, fmt.Errorf("%w: %v", interfaces.ErrUnavailable, err)
	}

	rating, err := ParseDifficulty(resp.Text)
	if err != nil {
		g.logger.Warn().Err(err).Str("ticker", req.Ticker).Str("response", truncate(resp.Text, 20)).Msg("Difficulty response unusable")
		return 0, fmt.Errorf("%w: %v", interfaces.ErrUnavailable, err)
	}

	g.logger.Info().Str("ticker", req.Ticker).Int("difficulty", rating).Msg("Rated difficulty")
	return rating, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
