package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/candle/internal/models"
	"github.com/ternarybob/candle/internal/services/marketcache"
	"github.com/ternarybob/candle/internal/services/puzzle"
)

var generateCmd = &cobra.Command{
	Use:   "generate [TICKER...]",
	Short: "Build puzzle documents for explicit tickers without scheduling them",
	Long: `Builds and stores the puzzle document for each ticker given. With --samples the bundled
sample puzzles are built from their fixed hints instead. With --refresh any cached market
data for the tickers is dropped first.`,
	RunE: runGenerate,
}

var (
	generateSamples bool
	generateRefresh bool
)

// pauseBetweenTickers spaces out text-generation calls when a key is configured
const pauseBetweenTickers = 2 * time.Second

func init() {
	generateCmd.Flags().BoolVar(&generateSamples, "samples", false, "Build the bundled sample puzzles")
	generateCmd.Flags().BoolVar(&generateRefresh, "refresh", false, "Drop cached market data before fetching")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if !generateSamples && len(args) == 0 {
		return fmt.Errorf("specify at least one ticker or --samples")
	}

	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := cmd.Context()
	store := application.StorageManager.Puzzles

	if generateSamples {
		for _, def := range puzzle.SampleDefinitions() {
			if generateRefresh {
				invalidateCache(ctx, application.MarketCache, def.Ticker)
			}
			p, err := application.Assembler.AssembleDefinition(ctx, def)
			if err != nil {
				return err
			}
			if err := store.SaveDocument(ctx, p); err != nil {
				return err
			}
			logger.Info().Str("id", p.ID).Str("ticker", p.Answer.Ticker).Msg("Sample puzzle written")
		}
		return nil
	}

	pause := application.HintGenerator.Configured()
	failed := 0
	for i, ticker := range args {
		if generateRefresh {
			invalidateCache(ctx, application.MarketCache, ticker)
		}

		p, err := application.Assembler.Assemble(ctx, ticker)
		if err == nil {
			err = puzzle.Validate(p)
		}
		if err == nil {
			err = store.SavePuzzle(ctx, p)
		}
		if err != nil {
			failed++
			logger.Error().Err(err).Str("ticker", ticker).Msg("Failed to generate puzzle")
		} else {
			logPuzzle(p)
		}

		if pause && i < len(args)-1 {
			if err := sleep(ctx, pauseBetweenTickers); err != nil {
				return err
			}
		}
	}

	if failed == len(args) {
		return fmt.Errorf("no puzzles generated")
	}
	return nil
}

// invalidateCache drops cached market data for ticker when the cache is enabled
func invalidateCache(ctx context.Context, cache *marketcache.Service, ticker string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, ticker); err != nil {
		logger.Warn().Err(err).Str("ticker", ticker).Msg("Failed to clear cached market data")
	}
}

func logPuzzle(p *models.Puzzle) {
	logger.Info().
		Str("ticker", p.Answer.Ticker).
		Str("name", p.Answer.Name).
		Float64("base_price", p.BasePrice).
		Int("points_1m", len(p.Charts[models.Period1M])).
		Int("points_1y", len(p.Charts[models.Period1Y])).
		Int("difficulty", p.Difficulty).
		Msg("Puzzle written")
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
