package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_SetKeepsInsertionOrder(t *testing.T) {
	s := NewSchedule()
	s.Set("2024-01-03", "NVDA")
	s.Set("2024-01-01", "AAPL")
	s.Set("2024-01-03", "TSLA")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []ScheduleEntry{
		{Date: "2024-01-03", Ticker: "TSLA"},
		{Date: "2024-01-01", Ticker: "AAPL"},
	}, s.Entries())
	assert.False(t, s.IsSorted())

	s.Sort()
	assert.True(t, s.IsSorted())
	assert.Equal(t, "2024-01-01", s.Entries()[0].Date)
}

func TestSchedule_Delete(t *testing.T) {
	s := NewSchedule()
	s.Set("2024-01-01", "AAPL")
	s.Set("2024-01-02", "MSFT")

	assert.True(t, s.Delete("2024-01-01"))
	assert.False(t, s.Delete("2024-01-01"))
	assert.Equal(t, []ScheduleEntry{{Date: "2024-01-02", Ticker: "MSFT"}}, s.Entries())
}

func TestSchedule_MaxDateSkipsMalformedKeys(t *testing.T) {
	s := NewSchedule()
	_, ok := s.MaxDate()
	assert.False(t, ok)

	s.Set("2024-02-10", "AAPL")
	s.Set("not-a-date", "MSFT")
	s.Set("2024-01-05", "NVDA")

	latest, ok := s.MaxDate()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), latest)
}

func TestSchedule_JSONPreservesDocumentOrder(t *testing.T) {
	input := `{"2024-01-02":"MSFT","2024-01-01":"AAPL"}`

	s := NewSchedule()
	require.NoError(t, json.Unmarshal([]byte(input), s))
	assert.Equal(t, "2024-01-02", s.Entries()[0].Date)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))

	s.Sort()
	out, err = json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"2024-01-01":"AAPL","2024-01-02":"MSFT"}`, string(out))
}

func TestSchedule_UnmarshalRejectsNonObject(t *testing.T) {
	s := NewSchedule()
	assert.Error(t, json.Unmarshal([]byte(`["2024-01-01"]`), s))
	assert.Error(t, json.Unmarshal([]byte(`{"2024-01-01":5}`), s))
}

func TestSchedule_CloneIsIndependent(t *testing.T) {
	s := NewSchedule()
	s.Set("2024-01-01", "AAPL")

	c := s.Clone()
	c.Set("2024-01-02", "MSFT")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, c.Len())
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	evening := time.Date(2024, 3, 9, 23, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), Day(evening))
	assert.Equal(t, "2024-03-09", FormatDate(Day(evening)))
}
