package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

// CheckInWriter is the slice of the check-in store the recorder needs. The
// store enforces uniqueness on the (user, habit, period) natural key, so
// concurrent recordings of the same triple collapse to one row with the
// store-ordered last write winning.
type CheckInWriter interface {
	Upsert(ctx context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error)
}

// Recorder validates and idempotently records one completion status for a
// (user, habit, period) triple.
type Recorder struct {
	store CheckInWriter
	now   func() time.Time
}

func NewRecorder(store CheckInWriter) *Recorder {
	return &Recorder{
		store: store,
		now:   time.Now,
	}
}

// WithClock pins the recorder's notion of "now" for tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

type RecordInput struct {
	UserID    string
	HabitID   string
	Frequency string

	// Date is an optional RFC3339 timestamp or YYYY-MM-DD date; empty
	// means the current instant.
	Date      string
	Completed bool
}

// Record normalizes the input instant under the habit's cadence and upserts
// the check-in. All validation happens before the store call, so a failed
// Record never leaves a partial write, and a retried Record is harmless.
func (r *Recorder) Record(ctx context.Context, input RecordInput) (*domain.CheckIn, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.New("user id is required")
	}
	if strings.TrimSpace(input.HabitID) == "" {
		return nil, errors.New("habit id is required")
	}

	at := r.now()
	if input.Date != "" {
		parsed, err := ParseTimestamp(input.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, input.Date)
		}
		at = parsed
	}

	period := Normalize(at, CadenceForFrequency(input.Frequency))

	checkIn := domain.NewCheckIn(input.UserID, input.HabitID, period, input.Completed)
	if err := checkIn.Validate(); err != nil {
		return nil, err
	}

	saved, err := r.store.Upsert(ctx, checkIn)
	if err != nil {
		return nil, err
	}

	return saved, nil
}
