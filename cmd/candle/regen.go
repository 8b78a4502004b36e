package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/services/puzzle"
)

var regenCmd = &cobra.Command{
	Use:   "regen TICKER",
	Short: "Regenerate the description, fun facts and difficulty of a stored puzzle",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegen,
}

var editCmd = &cobra.Command{
	Use:   "edit TICKER",
	Short: "Manually override hint text of a stored puzzle",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var (
	editDescription string
	editFunFact1    string
	editFunFact2    string
	editDifficulty  int
)

func init() {
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description")
	editCmd.Flags().StringVar(&editFunFact1, "fun-fact-1", "", "New first fun fact")
	editCmd.Flags().StringVar(&editFunFact2, "fun-fact-2", "", "New second fun fact")
	editCmd.Flags().IntVar(&editDifficulty, "difficulty", 0, "New difficulty (1-5)")
}

func runRegen(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := cmd.Context()
	ticker := common.NormalizeTicker(args[0])
	store := application.StorageManager.Puzzles

	existing, err := store.LoadPuzzle(ctx, ticker)
	if err != nil {
		return err
	}

	updated, err := application.Assembler.Regenerate(ctx, existing)
	if err != nil {
		return err
	}
	if err := store.SavePuzzle(ctx, updated); err != nil {
		return err
	}

	logger.Info().
		Str("ticker", ticker).
		Str("description", updated.Hints.Description).
		Int("difficulty", updated.Difficulty).
		Msg("Puzzle regenerated")
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	var edit puzzle.Edit
	flags := cmd.Flags()
	if flags.Changed("description") {
		edit.Description = &editDescription
	}
	if flags.Changed("fun-fact-1") {
		edit.FunFact1 = &editFunFact1
	}
	if flags.Changed("fun-fact-2") {
		edit.FunFact2 = &editFunFact2
	}
	if flags.Changed("difficulty") {
		edit.Difficulty = &editDifficulty
	}
	if edit.IsEmpty() {
		return fmt.Errorf("nothing to edit: pass --description, --fun-fact-1, --fun-fact-2 or --difficulty")
	}

	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := cmd.Context()
	ticker := common.NormalizeTicker(args[0])
	store := application.StorageManager.Puzzles

	existing, err := store.LoadPuzzle(ctx, ticker)
	if err != nil {
		return err
	}
	updated, err := puzzle.ApplyEdit(existing, edit)
	if err != nil {
		return err
	}
	if err := store.SavePuzzle(ctx, updated); err != nil {
		return err
	}

	logger.Info().Str("ticker", ticker).Msg("Puzzle updated")
	return nil
}
