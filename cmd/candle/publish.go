package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish [TICKER...]",
	Short: "Commit the schedule and puzzle documents to the site repository",
	Long: `Pushes the local schedule document, and the puzzle documents of any tickers given, to the
GitHub repository configured in [github].`,
	RunE: runPublish,
}

var publishSkipSchedule bool

func init() {
	publishCmd.Flags().BoolVar(&publishSkipSchedule, "no-schedule", false, "Only publish the given puzzles")
}

func runPublish(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	if application.PublishService == nil {
		return fmt.Errorf("publishing requires [github] token and repo")
	}

	ctx := cmd.Context()
	if len(args) > 0 {
		if err := application.PublishService.PublishPuzzles(ctx, args); err != nil {
			return err
		}
	}
	if !publishSkipSchedule {
		if err := application.PublishService.PublishSchedule(ctx); err != nil {
			return err
		}
	}
	return nil
}
