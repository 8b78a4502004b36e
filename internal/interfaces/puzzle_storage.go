package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/candle/internal/models"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ScheduleStorage persists the date -> ticker schedule document.
type ScheduleStorage interface {
	// LoadSchedule returns the stored schedule, or an empty one if none exists yet.
	LoadSchedule(ctx context.Context) (*models.Schedule, error)

	// SaveSchedule writes the schedule exactly in its current order.
	SaveSchedule(ctx context.Context, schedule *models.Schedule) error
}

// PuzzleStorage persists one puzzle document per ticker.
type PuzzleStorage interface {
	LoadPuzzle(ctx context.Context, ticker string) (*models.Puzzle, error)
	SavePuzzle(ctx context.Context, puzzle *models.Puzzle) error
}

// PoolStorage loads the candidate ticker pool.
type PoolStorage interface {
	LoadPool(ctx context.Context) ([]models.TickerPoolEntry, error)
}

// Publisher pushes a document to a remote copy of the site.
type Publisher interface {
	PublishFile(ctx context.Context, path string, content []byte, message string) error
}
