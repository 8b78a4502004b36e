// Package schedule owns the date -> ticker rotation document.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
)

// Manager loads, sizes, prunes and persists the schedule.
type Manager struct {
	storage interfaces.ScheduleStorage
	config  common.ScheduleConfig
	logger  arbor.ILogger
}

// NewManager creates a schedule manager.
func NewManager(storage interfaces.ScheduleStorage, config common.ScheduleConfig, logger arbor.ILogger) *Manager {
	return &Manager{
		storage: storage,
		config:  config,
		logger:  logger,
	}
}

// Load reads the persisted schedule.
func (m *Manager) Load(ctx context.Context) (*models.Schedule, error) {
	s, err := m.storage.LoadSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	return s, nil
}

// NextDate returns the day after the latest scheduled date, or today when the
// schedule has no dates.
func (m *Manager) NextDate(s *models.Schedule, now time.Time) time.Time {
	last, ok := s.MaxDate()
	if !ok {
		return models.Day(now)
	}
	return last.AddDate(0, 0, 1)
}

// DaysToAdd returns how many days to generate this run: the gap between the
// latest scheduled date and today+BufferDays, at least 1 and at most MaxPerRun.
func (m *Manager) DaysToAdd(s *models.Schedule, now time.Time) int {
	today := models.Day(now)
	targetEnd := today.AddDate(0, 0, m.config.BufferDays)

	last, ok := s.MaxDate()
	if !ok {
		last = today
	}

	days := int(targetEnd.Sub(last).Hours() / 24)
	if days < 1 {
		days = 1
	}
	if m.config.MaxPerRun > 0 && days > m.config.MaxPerRun {
		days = m.config.MaxPerRun
	}
	return days
}

// Prune drops entries more than KeepDaysBack days before now and returns how many
// were removed. Keys that are not dates are kept.
func (m *Manager) Prune(s *models.Schedule, now time.Time) int {
	cutoff := models.Day(now).AddDate(0, 0, -m.config.KeepDaysBack)

	removed := 0
	for _, e := range s.Entries() {
		d, err := models.ParseDate(e.Date)
		if err != nil {
			m.logger.Warn().Str("date", e.Date).Str("ticker", e.Ticker).Msg("Schedule key is not a date, keeping it")
			continue
		}
		if d.Before(cutoff) {
			s.Delete(e.Date)
			removed++
		}
	}

	if removed > 0 {
		m.logger.Info().
			Int("removed", removed).
			Str("cutoff", models.FormatDate(cutoff)).
			Msg("Pruned old schedule entries")
	}
	return removed
}

// Save sorts the schedule by date and writes it.
func (m *Manager) Save(ctx context.Context, s *models.Schedule) error {
	s.Sort()
	if err := m.storage.SaveSchedule(ctx, s); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	m.logger.Info().Int("entries", s.Len()).Msg("Schedule saved")
	return nil
}

// Set assigns ticker to date and saves the schedule.
func (m *Manager) Set(ctx context.Context, date, ticker string) error {
	if _, err := models.ParseDate(date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	ticker = common.NormalizeTicker(ticker)
	if ticker == "" {
		return fmt.Errorf("empty ticker")
	}

	s, err := m.Load(ctx)
	if err != nil {
		return err
	}
	previous, existed := s.Get(date)
	s.Set(date, ticker)

	m.logger.Info().
		Str("date", date).
		Str("ticker", ticker).
		Str("previous", previous).
		Bool("replaced", existed).
		Msg("Schedule entry set")

	return m.Save(ctx, s)
}

// Remove deletes the entry for date and saves the schedule.
func (m *Manager) Remove(ctx context.Context, date string) error {
	s, err := m.Load(ctx)
	if err != nil {
		return err
	}
	if !s.Delete(date) {
		return fmt.Errorf("date %s: %w", date, interfaces.ErrNotFound)
	}
	m.logger.Info().Str("date", date).Msg("Schedule entry removed")
	return m.Save(ctx, s)
}

// PruneAndSave loads the schedule, prunes it relative to now and saves it.
func (m *Manager) PruneAndSave(ctx context.Context, now time.Time) (int, error) {
	s, err := m.Load(ctx)
	if err != nil {
		return 0, err
	}
	removed := m.Prune(s, now)
	return removed, m.Save(ctx, s)
}
