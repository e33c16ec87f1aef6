// Package analytics turns sparse per-period check-in records into streaks,
// completion rates and leaderboard rankings. All functions take an explicit
// reference instant so results are reproducible; nothing here reads the
// system clock except as a default, and nothing is cached between calls.
package analytics

import (
	"errors"
	"time"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidWindow    = errors.New("window must be at least 1 day")
)

// Cadence is the period granularity of a habit: one calendar day or one
// Sunday-aligned calendar week.
type Cadence int

const (
	CadenceDaily Cadence = iota
	CadenceWeekly
)

const secondsPerDay = 24 * 60 * 60

// StepDays is the distance between adjacent periods.
func (c Cadence) StepDays() int {
	if c == CadenceWeekly {
		return 7
	}
	return 1
}

func (c Cadence) stepSeconds() int64 {
	return int64(c.StepDays()) * secondsPerDay
}

// CadenceForFrequency maps a habit frequency to its normalization cadence.
// Custom habits have no fixed schedule and are keyed per day, like daily.
func CadenceForFrequency(frequency string) Cadence {
	if frequency == domain.FrequencyWeekly {
		return CadenceWeekly
	}
	return CadenceDaily
}

// Normalize maps an instant to its canonical period start: UTC midnight of
// the instant's UTC date for daily cadence, the UTC Sunday beginning that
// date's week for weekly. Any two instants in the same period normalize to
// the same value, which is what makes (user, habit, period) a usable key.
func Normalize(t time.Time, c Cadence) time.Time {
	u := t.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)

	if c == CadenceWeekly {
		return day.AddDate(0, 0, -int(day.Weekday()))
	}
	return day
}

// ParseTimestamp parses an RFC3339 timestamp or a bare YYYY-MM-DD date.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidTimestamp
}

// PeriodSet indexes canonical periods by Unix seconds for O(1) membership
// checks during the backward streak walk. Canonical periods are UTC
// midnights, so integer day steps of 86400 seconds are exact.
type PeriodSet map[int64]struct{}

// NewPeriodSet builds a set from raw period values, re-normalizing each
// under the given cadence. Duplicates collapse.
func NewPeriodSet(periods []time.Time, c Cadence) PeriodSet {
	set := make(PeriodSet, len(periods))
	for _, p := range periods {
		set.Add(p, c)
	}
	return set
}

func (s PeriodSet) Add(t time.Time, c Cadence) {
	s[Normalize(t, c).Unix()] = struct{}{}
}

func (s PeriodSet) Contains(t time.Time, c Cadence) bool {
	_, ok := s[Normalize(t, c).Unix()]
	return ok
}
