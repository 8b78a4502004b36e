package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// DateLayout is the ISO calendar-day format used for schedule keys.
const DateLayout = "2006-01-02"

// ScheduleEntry maps one calendar day to the ticker played that day.
type ScheduleEntry struct {
	Date   string `json:"date"`
	Ticker string `json:"ticker"`
}

// Schedule is the date -> ticker mapping behind the daily rotation.
// Keys are unique. Iteration follows insertion order until Sort is called.
type Schedule struct {
	order   []string
	tickers map[string]string
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{tickers: make(map[string]string)}
}

// Len returns the number of scheduled days.
func (s *Schedule) Len() int {
	return len(s.order)
}

// Get returns the ticker scheduled for date.
func (s *Schedule) Get(date string) (string, bool) {
	t, ok := s.tickers[date]
	return t, ok
}

// Set schedules ticker on date, replacing any existing entry for that date.
func (s *Schedule) Set(date, ticker string) {
	if s.tickers == nil {
		s.tickers = make(map[string]string)
	}
	if _, exists := s.tickers[date]; !exists {
		s.order = append(s.order, date)
	}
	s.tickers[date] = ticker
}

// Delete removes the entry for date and reports whether one existed.
func (s *Schedule) Delete(date string) bool {
	if _, ok := s.tickers[date]; !ok {
		return false
	}
	delete(s.tickers, date)
	for i, d := range s.order {
		if d == date {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Entries returns the schedule in its current iteration order.
func (s *Schedule) Entries() []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, len(s.order))
	for _, d := range s.order {
		entries = append(entries, ScheduleEntry{Date: d, Ticker: s.tickers[d]})
	}
	return entries
}

// Sort reorders the schedule by date ascending.
func (s *Schedule) Sort() {
	sort.Strings(s.order)
}

// IsSorted reports whether the iteration order is ascending by date.
func (s *Schedule) IsSorted() bool {
	return sort.StringsAreSorted(s.order)
}

// Clone returns an independent copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	c := NewSchedule()
	for _, e := range s.Entries() {
		c.Set(e.Date, e.Ticker)
	}
	return c
}

// MaxDate returns the latest well-formed date key.
func (s *Schedule) MaxDate() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, d := range s.order {
		t, err := ParseDate(d)
		if err != nil {
			continue
		}
		if !found || t.After(latest) {
			latest = t
			found = true
		}
	}
	return latest, found
}

// MarshalJSON writes the schedule as a JSON object in iteration order.
func (s *Schedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.tickers[d])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the document's key order.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schedule: expected object, got %v", tok)
	}

	*s = Schedule{tickers: make(map[string]string)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("schedule: unexpected key %v", keyTok)
		}
		var ticker string
		if err := dec.Decode(&ticker); err != nil {
			return fmt.Errorf("schedule: value for %s: %w", key, err)
		}
		s.Set(key, ticker)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	return nil
}

// ParseDate parses an ISO calendar day in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats t as an ISO calendar day in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to midnight in UTC of the same calendar day as seen in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
