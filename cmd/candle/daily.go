package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ternarybob/candle/internal/app"
	"github.com/ternarybob/candle/internal/models"
	"github.com/ternarybob/candle/internal/services/generator"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Extend the schedule with the next batch of puzzles",
	Long: `Picks tickers that were not used recently, builds their puzzles, appends them to the
schedule and prunes old entries. Exits non-zero when no puzzle could be generated.
A failed publish is logged and does not change the exit status.`,
	RunE: runDaily,
}

var (
	maxPerRun    int
	dailyPublish bool
)

func init() {
	dailyCmd.Flags().IntVar(&maxPerRun, "max-per-run", 0, "Maximum puzzles to generate (overrides config)")
	dailyCmd.Flags().BoolVar(&dailyPublish, "publish", false, "Publish the schedule and new puzzles after the run")
}

func runDaily(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	return runPipeline(cmd.Context(), application, dailyPublish || config.Scheduler.Publish)
}

// runPipeline runs one generation and optionally publishes what it produced.
func runPipeline(ctx context.Context, application *app.App, publish bool) error {
	var publisher runPublisher
	if publish {
		if application.PublishService == nil {
			logger.Warn().Msg("Publishing requested but [github] is not configured")
		} else {
			publisher = application.PublishService
		}
	}

	result, runErr := application.GeneratorService.Run(ctx)
	return finishRun(ctx, publisher, result, runErr)
}

// runPublisher pushes the documents written by a run.
type runPublisher interface {
	PublishRun(ctx context.Context, added []models.ScheduleEntry) error
}

// finishRun logs the outcome and publishes it when publisher is set. The returned
// error is the run's own: a publish failure is only logged.
func finishRun(ctx context.Context, publisher runPublisher, result *generator.RunResult, runErr error) error {
	if result != nil && len(result.Added) > 0 {
		tickers := make([]string, 0, len(result.Added))
		for _, e := range result.Added {
			tickers = append(tickers, e.Date+"="+e.Ticker)
		}
		logger.Info().
			Str("added", strings.Join(tickers, ", ")).
			Int("errors", len(result.Errors)).
			Msg("Daily generation complete")
	}

	if runErr != nil && !errors.Is(runErr, generator.ErrNoPuzzlesGenerated) {
		return runErr
	}

	if publisher != nil && result != nil {
		if err := publisher.PublishRun(ctx, result.Added); err != nil {
			logger.Warn().
				Err(err).
				Int("added", len(result.Added)).
				Msg("Publishing failed, documents remain saved locally")
		}
	}

	return runErr
}
