package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
)

// ScheduleStorage implements interfaces.ScheduleStorage over a single JSON object file
type ScheduleStorage struct {
	path   string
	logger arbor.ILogger
}

// NewScheduleStorage creates a new ScheduleStorage for path
func NewScheduleStorage(path string, logger arbor.ILogger) interfaces.ScheduleStorage {
	return &ScheduleStorage{
		path:   path,
		logger: logger,
	}
}

// LoadSchedule reads the schedule. A missing file is an empty schedule.
func (s *ScheduleStorage) LoadSchedule(ctx context.Context) (*models.Schedule, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info().Str("path", s.path).Msg("No schedule file yet, starting empty")
		return models.NewSchedule(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}

	schedule := models.NewSchedule()
	if err := json.Unmarshal(data, schedule); err != nil {
		return nil, fmt.Errorf("failed to parse schedule %s: %w", s.path, err)
	}

	s.logger.Debug().Str("path", s.path).Int("entries", schedule.Len()).Msg("Loaded schedule")
	return schedule, nil
}

// SaveSchedule writes the schedule in its current order
func (s *ScheduleStorage) SaveSchedule(ctx context.Context, schedule *models.Schedule) error {
	if err := WriteFile(s.path, schedule); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	s.logger.Debug().Str("path", s.path).Int("entries", schedule.Len()).Msg("Saved schedule")
	return nil
}
