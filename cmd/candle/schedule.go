package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Inspect and edit the puzzle schedule",
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the schedule",
	RunE:  runScheduleShow,
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set DATE TICKER",
	Short: "Assign a ticker to a date (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(2),
	RunE:  runScheduleSet,
}

var scheduleRemoveCmd = &cobra.Command{
	Use:   "remove DATE",
	Short: "Remove the entry for a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleRemove,
}

var schedulePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop entries older than the configured history window",
	RunE:  runSchedulePrune,
}

func init() {
	scheduleCmd.AddCommand(scheduleShowCmd)
	scheduleCmd.AddCommand(scheduleSetCmd)
	scheduleCmd.AddCommand(scheduleRemoveCmd)
	scheduleCmd.AddCommand(schedulePruneCmd)
}

func runScheduleShow(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	s, err := application.ScheduleManager.Load(cmd.Context())
	if err != nil {
		return err
	}
	s.Sort()

	out := cmd.OutOrStdout()
	for _, e := range s.Entries() {
		fmt.Fprintf(out, "%s  %s\n", e.Date, e.Ticker)
	}
	fmt.Fprintf(out, "%d entries, next date %s\n", s.Len(), application.ScheduleManager.NextDate(s, time.Now()).Format("2006-01-02"))
	return nil
}

func runScheduleSet(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	return application.ScheduleManager.Set(cmd.Context(), args[0], args[1])
}

func runScheduleRemove(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	return application.ScheduleManager.Remove(cmd.Context(), args[0])
}

func runSchedulePrune(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	removed, err := application.ScheduleManager.PruneAndSave(cmd.Context(), time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
	return nil
}
