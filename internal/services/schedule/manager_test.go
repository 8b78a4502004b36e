package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/candle/internal/common"
	"github.com/ternarybob/candle/internal/interfaces"
	"github.com/ternarybob/candle/internal/models"
)

// memoryStorage implements interfaces.ScheduleStorage for testing
type memoryStorage struct {
	schedule *models.Schedule
	saved    []string
	saveErr  error
}

func (m *memoryStorage) LoadSchedule(ctx context.Context) (*models.Schedule, error) {
	if m.schedule == nil {
		return models.NewSchedule(), nil
	}
	return m.schedule.Clone(), nil
}

func (m *memoryStorage) SaveSchedule(ctx context.Context, s *models.Schedule) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.schedule = s.Clone()
	m.saved = nil
	for _, e := range s.Entries() {
		m.saved = append(m.saved, e.Date)
	}
	return nil
}

func defaultConfig() common.ScheduleConfig {
	return common.NewDefaultConfig().Schedule
}

func newTestManager(storage interfaces.ScheduleStorage) *Manager {
	return NewManager(storage, defaultConfig(), arbor.NewLogger())
}

func scheduleOf(pairs ...string) *models.Schedule {
	s := models.NewSchedule()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}
	return s
}

var jan1 = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func TestNextDate(t *testing.T) {
	m := newTestManager(&memoryStorage{})

	assert.Equal(t, "2024-01-01", models.FormatDate(m.NextDate(models.NewSchedule(), jan1)), "empty schedule starts today")
	assert.Equal(t, "2024-03-01", models.FormatDate(m.NextDate(scheduleOf("2024-02-29", "A", "2024-01-05", "B"), jan1)))
	assert.Equal(t, "2024-01-01", models.FormatDate(m.NextDate(scheduleOf("bogus", "A"), jan1)), "malformed keys are ignored")
}

func TestDaysToAdd(t *testing.T) {
	tests := []struct {
		name      string
		schedule  *models.Schedule
		maxPerRun int
		want      int
	}{
		{"empty schedule capped", models.NewSchedule(), 3, 3},
		{"empty schedule uncapped", models.NewSchedule(), 100, 30},
		{"buffer nearly full", scheduleOf("2024-01-29", "A"), 3, 2},
		{"buffer full still adds one", scheduleOf("2024-01-31", "A"), 3, 1},
		{"buffer overfull still adds one", scheduleOf("2024-03-01", "A"), 3, 1},
		{"far behind capped", scheduleOf("2023-06-01", "A"), 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := defaultConfig()
			config.MaxPerRun = tt.maxPerRun
			m := NewManager(&memoryStorage{}, config, arbor.NewLogger())
			assert.Equal(t, tt.want, m.DaysToAdd(tt.schedule, jan1))
		})
	}
}

func TestPrune(t *testing.T) {
	m := newTestManager(&memoryStorage{})
	s := scheduleOf(
		"2023-12-24", "OLD",
		"2023-12-25", "KEEP1", // exactly 7 days back
		"2024-01-01", "TODAY",
		"2024-01-05", "FUTR",
		"garbage", "BAD",
	)

	removed := m.Prune(s, jan1)

	assert.Equal(t, 1, removed)
	_, ok := s.Get("2023-12-24")
	assert.False(t, ok)
	for _, d := range []string{"2023-12-25", "2024-01-01", "2024-01-05", "garbage"} {
		_, ok := s.Get(d)
		assert.True(t, ok, d)
	}
}

func TestSortAndPruneIdempotent(t *testing.T) {
	m := newTestManager(&memoryStorage{})
	build := func() *models.Schedule {
		return scheduleOf(
			"2024-01-03", "C",
			"2023-11-01", "X",
			"2024-01-01", "A",
			"2023-12-30", "Z",
			"2024-01-02", "B",
		)
	}

	once := build()
	m.Prune(once, jan1)
	once.Sort()

	twice := build()
	m.Prune(twice, jan1)
	twice.Sort()
	m.Prune(twice, jan1)
	twice.Sort()

	assert.Equal(t, once.Entries(), twice.Entries())
	assert.True(t, twice.IsSorted())
}

func TestSave_SortsBeforeWriting(t *testing.T) {
	storage := &memoryStorage{}
	m := newTestManager(storage)
	s := scheduleOf("2024-01-03", "C", "2024-01-01", "A", "2024-01-02", "B")

	require.NoError(t, m.Save(context.Background(), s))

	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, storage.saved)
}

func TestSave_Error(t *testing.T) {
	storage := &memoryStorage{saveErr: errors.New("disk full")}
	m := newTestManager(storage)

	assert.Error(t, m.Save(context.Background(), models.NewSchedule()))
}

func TestSetAndRemove(t *testing.T) {
	storage := &memoryStorage{schedule: scheduleOf("2024-01-02", "MSFT")}
	m := newTestManager(storage)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "2024-01-01", " aapl "))
	require.NoError(t, m.Set(ctx, "2024-01-02", "goog"))

	ticker, ok := storage.schedule.Get("2024-01-02")
	require.True(t, ok)
	assert.Equal(t, "GOOG", ticker)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, storage.saved)

	require.NoError(t, m.Remove(ctx, "2024-01-01"))
	assert.Equal(t, 1, storage.schedule.Len())

	assert.ErrorIs(t, m.Remove(ctx, "2024-01-01"), interfaces.ErrNotFound)
	assert.Error(t, m.Set(ctx, "01/02/2024", "AAPL"))
	assert.Error(t, m.Set(ctx, "2024-01-05", "  "))
}

func TestPruneAndSave(t *testing.T) {
	storage := &memoryStorage{schedule: scheduleOf("2023-01-01", "OLD", "2024-01-01", "NEW")}
	m := newTestManager(storage)

	removed, err := m.PruneAndSave(context.Background(), jan1)
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"2024-01-01"}, storage.saved)
}
