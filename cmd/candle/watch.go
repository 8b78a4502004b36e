package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/ternarybob/candle/internal/services/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the daily pipeline on the configured cron schedule until interrupted",
	RunE:  runWatch,
}

const dailyJob = "daily"

func runWatch(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	sched := scheduler.NewService(logger)
	err = sched.RegisterJob(dailyJob, config.Scheduler.Cron, func(ctx context.Context) error {
		return runPipeline(ctx, application, config.Scheduler.Publish)
	})
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	if config.Scheduler.RunOnStart {
		if err := sched.RunNow(dailyJob); err != nil {
			logger.Warn().Err(err).Msg("Initial run failed")
		}
	}

	if status, err := sched.GetJobStatus(dailyJob); err == nil && status.NextRun != nil {
		logger.Info().
			Str("cron", config.Scheduler.Cron).
			Str("next_run", status.NextRun.Format("2006-01-02 15:04:05 MST")).
			Msg("Watching - Press Ctrl+C to stop")
	}

	<-cmd.Context().Done()
	logger.Info().Msg("Interrupt signal received")
	return nil
}
