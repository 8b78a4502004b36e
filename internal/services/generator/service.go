// Package generator runs the daily pipeline: pick tickers, build puzzles,
// extend the schedule and prune its history.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
	"github.com/ternarybob/candle/internal/services/puzzle"
	"github.com/ternarybob/candle/internal/services/schedule"
	"github.com/ternarybob/candle/internal/services/selector"
)

// ErrNoPuzzlesGenerated is returned when a run did not add a single day.
var ErrNoPuzzlesGenerated = errors.New("no puzzles generated")

// Assembler builds a puzzle for one ticker.
type Assembler interface {
	Assemble(ctx context.Context, ticker string) (*models.Puzzle, error)
}

// RunResult summarizes one generation run.
type RunResult struct {
	RunID  string
	Added  []models.ScheduleEntry
	Errors []error
	Pruned int
}

// Service orchestrates one generation run.
type Service struct {
	schedule  *schedule.Manager
	selector  *selector.Selector
	assembler Assembler
	puzzles   interfaces.PuzzleStorage
	pool      interfaces.PoolStorage
	config    common.ScheduleConfig
	logger    arbor.ILogger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewService creates a new generator service
func NewService(
	scheduleManager *schedule.Manager,
	tickerSelector *selector.Selector,
	assembler Assembler,
	puzzles interfaces.PuzzleStorage,
	pool interfaces.PoolStorage,
	config common.ScheduleConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		schedule:  scheduleManager,
		selector:  tickerSelector,
		assembler: assembler,
		puzzles:   puzzles,
		pool:      pool,
		config:    config,
		logger:    logger,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// WithClock replaces the wall clock used for date arithmetic.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run generates the next batch of scheduled puzzles.
//
// A failed ticker gets one fallback attempt with a different ticker; if that
// fails too the day is skipped and the run moves on. Pruning and saving are
// attempted regardless of how many days succeeded. ErrNoPuzzlesGenerated is
// returned, together with the result, when nothing was added.
func (s *Service) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{RunID: common.NewRunID()}
	logger := s.logger.WithCorrelationId(result.RunID)
	startTime := time.Now()

	sched, err := s.schedule.Load(ctx)
	if err != nil {
		return result, err
	}
	pool, err := s.pool.LoadPool(ctx)
	if err != nil {
		return result, fmt.Errorf("load ticker pool: %w", err)
	}
	if len(pool) == 0 {
		return result, selector.ErrEmptyPool
	}

	now := s.now()
	recent := selector.RecentlyUsed(sched, now, s.config.LookbackDays)
	days := s.schedule.DaysToAdd(sched, now)

	logger.Info().
		Int("existing", sched.Len()).
		Int("pool_size", len(pool)).
		Int("recently_used", len(recent)).
		Int("days_to_add", days).
		Msg("Starting generation run")

	pause := s.config.PauseDuration()

	for i := 0; i < days; i++ {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}

		date := models.FormatDate(s.schedule.NextDate(sched, now))
		ticker, dayErrs := s.generateDay(ctx, logger, date, pool, recent)
		result.Errors = append(result.Errors, dayErrs...)

		if ticker != "" {
			sched.Set(date, ticker)
			recent.Add(ticker)
			result.Added = append(result.Added, models.ScheduleEntry{Date: date, Ticker: ticker})
			logger.Info().Str("date", date).Str("ticker", ticker).Msg("Scheduled puzzle")
		} else {
			logger.Warn().Str("date", date).Msg("Skipping day after primary and fallback failed")
		}

		if i < days-1 && pause > 0 {
			if err := s.sleep(ctx, pause); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}
	}

	result.Pruned = s.schedule.Prune(sched, now)
	saveErr := s.schedule.Save(ctx, sched)

	s.logSummary(logger, result, time.Since(startTime))

	if saveErr != nil {
		return result, saveErr
	}
	if len(result.Added) == 0 {
		return result, ErrNoPuzzlesGenerated
	}
	return result, nil
}

// generateDay tries a primary pick and, on failure, exactly one fallback.
// It returns the committed ticker ("" when both failed) and the errors seen.
func (s *Service) generateDay(ctx context.Context, logger arbor.ILogger, date string, pool []models.TickerPoolEntry, recent selector.TickerSet) (string, []error) {
	var errs []error

	primary, err := s.selector.Pick(pool, recent)
	if err != nil {
		return "", append(errs, err)
	}

	logger.Info().Str("date", date).Str("ticker", primary.Ticker).Msg("Generating puzzle")
	if err := s.attempt(ctx, primary.Ticker); err == nil {
		return common.NormalizeTicker(primary.Ticker), errs
	} else {
		logger.Warn().Err(err).Str("date", date).Str("ticker", primary.Ticker).Msg("Puzzle generation failed, trying fallback")
		errs = append(errs, fmt.Errorf("%s (%s): %w", primary.Ticker, date, err))
	}

	fallback, err := s.selector.Pick(pool, recent.With(primary.Ticker))
	if err != nil {
		return "", append(errs, err)
	}

	logger.Info().Str("date", date).Str("ticker", fallback.Ticker).Msg("Generating fallback puzzle")
	if err := s.attempt(ctx, fallback.Ticker); err != nil {
		logger.Warn().Err(err).Str("date", date).Str("ticker", fallback.Ticker).Msg("Fallback generation failed")
		return "", append(errs, fmt.Errorf("%s (%s): %w", fallback.Ticker, date, err))
	}
	return common.NormalizeTicker(fallback.Ticker), errs
}

// attempt builds, validates and stores one puzzle.
func (s *Service) attempt(ctx context.Context, ticker string) error {
	p, err := s.assembler.Assemble(ctx, ticker)
	if err != nil {
		return err
	}
	if err := puzzle.Validate(p); err != nil {
		return err
	}
	return s.puzzles.SavePuzzle(ctx, p)
}

func (s *Service) logSummary(logger arbor.ILogger, result *RunResult, elapsed time.Duration) {
	event := logger.Info()
	if len(result.Errors) > 0 {
		event = logger.Warn()
	}
	event.
		Int("added", len(result.Added)).
		Int("errors", len(result.Errors)).
		Int("pruned", result.Pruned).
		Dur("elapsed", elapsed).
		Msg("Generation run finished")

	for _, err := range result.Errors {
		logger.Warn().Err(err).Msg("Run error")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
