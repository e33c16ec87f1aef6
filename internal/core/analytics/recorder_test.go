package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza/internal/adapters/repository"
	"github.com/cadenza-app/cadenza/internal/core/analytics"
	"github.com/cadenza-app/cadenza/internal/core/domain"
)

func TestRecorderRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("Explicit date normalizes to UTC midnight", func(t *testing.T) {
		store := repository.NewInMemoryCheckInRepository()
		recorder := analytics.NewRecorder(store)

		checkIn, err := recorder.Record(ctx, analytics.RecordInput{
			UserID:    "u1",
			HabitID:   "h1",
			Frequency: domain.FrequencyDaily,
			Date:      "2025-03-15T18:45:00Z",
			Completed: true,
		})
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), checkIn.Period.UTC())
		assert.True(t, checkIn.Completed)
	})

	t.Run("Weekly habit keys on the Sunday week start", func(t *testing.T) {
		store := repository.NewInMemoryCheckInRepository()
		recorder := analytics.NewRecorder(store)

		// 2025-03-12 is a Wednesday.
		checkIn, err := recorder.Record(ctx, analytics.RecordInput{
			UserID:    "u1",
			HabitID:   "h1",
			Frequency: domain.FrequencyWeekly,
			Date:      "2025-03-12",
			Completed: true,
		})
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), checkIn.Period.UTC())
		assert.Equal(t, time.Sunday, checkIn.Period.UTC().Weekday())
	})

	t.Run("Empty date uses the recorder clock", func(t *testing.T) {
		store := repository.NewInMemoryCheckInRepository()
		pinned := time.Date(2025, 3, 15, 23, 50, 0, 0, time.UTC)
		recorder := analytics.NewRecorder(store).WithClock(func() time.Time { return pinned })

		checkIn, err := recorder.Record(ctx, analytics.RecordInput{
			UserID:    "u1",
			HabitID:   "h1",
			Frequency: domain.FrequencyDaily,
			Completed: true,
		})
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), checkIn.Period.UTC())
	})

	t.Run("Recording twice in one period keeps a single row", func(t *testing.T) {
		store := repository.NewInMemoryCheckInRepository()
		recorder := analytics.NewRecorder(store)

		first, err := recorder.Record(ctx, analytics.RecordInput{
			UserID:    "u1",
			HabitID:   "h1",
			Frequency: domain.FrequencyDaily,
			Date:      "2025-03-15T08:00:00Z",
			Completed: true,
		})
		require.NoError(t, err)

		second, err := recorder.Record(ctx, analytics.RecordInput{
			UserID:    "u1",
			HabitID:   "h1",
			Frequency: domain.FrequencyDaily,
			Date:      "2025-03-15T21:00:00Z",
			Completed: true,
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID, "same period must reuse the row")
		assert.Equal(t, first.CreatedAt, second.CreatedAt, "creation time survives overwrites")
		assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

		all, err := store.ListByHabit(ctx, "u1", "h1", time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Completed flag flips on re-record", func(t *testing.T) {
		store := repository.NewInMemoryCheckInRepository()
		recorder := analytics.NewRecorder(store)

		_, err := recorder.Record(ctx, analytics.RecordInput{
			UserID: "u1", HabitID: "h1", Frequency: domain.FrequencyDaily,
			Date: "2025-03-15", Completed: true,
		})
		require.NoError(t, err)

		undone, err := recorder.Record(ctx, analytics.RecordInput{
			UserID: "u1", HabitID: "h1", Frequency: domain.FrequencyDaily,
			Date: "2025-03-15", Completed: false,
		})
		require.NoError(t, err)
		assert.False(t, undone.Completed)

		periods, err := store.ListCompletedPeriods(ctx, "u1", "h1", time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Empty(t, periods, "incomplete check-ins must not count as completed periods")
	})

	t.Run("Unparseable date fails before the store is touched", func(t *testing.T) {
		store := repository.NewInMemoryCheckInRepository()
		recorder := analytics.NewRecorder(store)

		_, err := recorder.Record(ctx, analytics.RecordInput{
			UserID: "u1", HabitID: "h1", Frequency: domain.FrequencyDaily,
			Date: "15/03/2025", Completed: true,
		})
		assert.ErrorIs(t, err, analytics.ErrInvalidDate)

		all, listErr := store.ListByHabit(ctx, "u1", "h1", time.Time{}, time.Time{})
		require.NoError(t, listErr)
		assert.Empty(t, all)
	})

	t.Run("Missing ids are rejected", func(t *testing.T) {
		recorder := analytics.NewRecorder(repository.NewInMemoryCheckInRepository())

		_, err := recorder.Record(ctx, analytics.RecordInput{HabitID: "h1", Completed: true})
		assert.Error(t, err)

		_, err = recorder.Record(ctx, analytics.RecordInput{UserID: "u1", Completed: true})
		assert.Error(t, err)
	})

	t.Run("Store failure propagates", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		recorder := analytics.NewRecorder(failingWriter{err: storeErr})

		_, err := recorder.Record(ctx, analytics.RecordInput{
			UserID: "u1", HabitID: "h1", Frequency: domain.FrequencyDaily, Completed: true,
		})
		assert.ErrorIs(t, err, storeErr)
	})
}

type failingWriter struct {
	err error
}

func (f failingWriter) Upsert(ctx context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error) {
	return nil, f.err
}
