package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrCheckInNotFound = errors.New("check-in not found")
	// ErrCheckInConflict signals a unique violation on the (user, habit, period)
	// natural key. Repositories resolve it internally by falling back to an
	// update; it only escapes when both paths fail.
	ErrCheckInConflict = errors.New("check-in already exists for this period")
)

// CheckIn is one user's completion status for one habit in one canonical
// period. At most one row exists per (UserID, HabitID, Period); repeated
// recordings for the same period overwrite Completed in place.
type CheckIn struct {
	ID      string `json:"id" db:"id"`
	UserID  string `json:"user_id" db:"user_id"`
	HabitID string `json:"habit_id" db:"habit_id"`

	// Period is the canonical period start: UTC midnight of the day for
	// daily habits, the UTC Sunday starting the week for weekly habits.
	Period    time.Time `json:"date" db:"period"`
	Completed bool      `json:"completed" db:"completed"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewCheckIn(userID, habitID string, period time.Time, completed bool) *CheckIn {
	now := time.Now().UTC()

	return &CheckIn{
		UserID:    userID,
		HabitID:   habitID,
		Period:    period.UTC(),
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *CheckIn) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(c.HabitID) == "" {
		return errors.New("habit_id is required")
	}
	if c.Period.IsZero() {
		return errors.New("period is required")
	}
	return nil
}
