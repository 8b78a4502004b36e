package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
)

// PuzzleStorage implements interfaces.PuzzleStorage with one file per ticker
type PuzzleStorage struct {
	dir    string
	logger arbor.ILogger
}

// NewPuzzleStorage creates a new PuzzleStorage rooted at dir
func NewPuzzleStorage(dir string, logger arbor.ILogger) *PuzzleStorage {
	return &PuzzleStorage{
		dir:    dir,
		logger: logger,
	}
}

// Path returns the document path for ticker
func (s *PuzzleStorage) Path(ticker string) string {
	return filepath.Join(s.dir, common.DocumentName(ticker))
}

// LoadPuzzle reads the puzzle for ticker, or returns interfaces.ErrNotFound
func (s *PuzzleStorage) LoadPuzzle(ctx context.Context, ticker string) (*models.Puzzle, error) {
	path := s.Path(ticker)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("puzzle %s: %w", ticker, interfaces.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle %s: %w", ticker, err)
	}

	var puzzle models.Puzzle
	if err := json.Unmarshal(data, &puzzle); err != nil {
		return nil, fmt.Errorf("failed to parse puzzle %s: %w", path, err)
	}
	return &puzzle, nil
}

// SavePuzzle writes the puzzle under its answer ticker
func (s *PuzzleStorage) SavePuzzle(ctx context.Context, puzzle *models.Puzzle) error {
	if puzzle == nil || puzzle.Answer.Ticker == "" {
		return fmt.Errorf("puzzle has no ticker")
	}
	path := s.Path(puzzle.Answer.Ticker)
	if err := WriteFile(path, puzzle); err != nil {
		return fmt.Errorf("failed to save puzzle %s: %w", puzzle.Answer.Ticker, err)
	}
	s.logger.Debug().Str("ticker", puzzle.Answer.Ticker).Str("path", path).Msg("Saved puzzle")
	return nil
}

// SaveDocument writes the puzzle under its document id rather than its ticker.
// Bundled samples are stored this way, e.g. "sample-0.json".
func (s *PuzzleStorage) SaveDocument(ctx context.Context, puzzle *models.Puzzle) error {
	if puzzle == nil || puzzle.ID == "" {
		return fmt.Errorf("puzzle has no id")
	}
	name := strings.ToLower(strings.TrimSpace(puzzle.ID))
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid puzzle id %q", puzzle.ID)
	}
	path := filepath.Join(s.dir, name+".json")
	if err := WriteFile(path, puzzle); err != nil {
		return fmt.Errorf("failed to save puzzle %s: %w", puzzle.ID, err)
	}
	s.logger.Debug().Str("id", puzzle.ID).Str("path", path).Msg("Saved puzzle document")
	return nil
}
