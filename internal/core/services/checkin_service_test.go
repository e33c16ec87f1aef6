package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza/internal/adapters/repository"
	"github.com/cadenza-app/cadenza/internal/core/analytics"
	"github.com/cadenza-app/cadenza/internal/core/domain"
	"github.com/cadenza-app/cadenza/internal/core/services"
)

func newCheckInFixture(t *testing.T) (*services.CheckInService, *repository.InMemoryCheckInRepository, *domain.Habit) {
	t.Helper()

	habitRepo := repository.NewInMemoryHabitRepository()
	checkInRepo := repository.NewInMemoryCheckInRepository()

	habit, err := domain.NewHabit("u1", "morning run", "fitness", domain.FrequencyDaily, nil)
	require.NoError(t, err)
	require.NoError(t, habitRepo.Create(context.Background(), habit))

	return services.NewCheckInService(checkInRepo, habitRepo), checkInRepo, habit
}

func TestCheckInServiceRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("Records for an owned habit", func(t *testing.T) {
		svc, _, habit := newCheckInFixture(t)

		checkIn, err := svc.Record(ctx, services.RecordCheckInInput{
			UserID:    "u1",
			HabitID:   habit.ID,
			Date:      "2025-03-15",
			Completed: true,
		})
		require.NoError(t, err)
		assert.Equal(t, habit.ID, checkIn.HabitID)
		assert.True(t, checkIn.Completed)
	})

	t.Run("Another user's habit reads as not found", func(t *testing.T) {
		svc, _, habit := newCheckInFixture(t)

		_, err := svc.Record(ctx, services.RecordCheckInInput{
			UserID:    "intruder",
			HabitID:   habit.ID,
			Date:      "2025-03-15",
			Completed: true,
		})
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Unknown habit", func(t *testing.T) {
		svc, _, _ := newCheckInFixture(t)

		_, err := svc.Record(ctx, services.RecordCheckInInput{
			UserID:    "u1",
			HabitID:   "missing",
			Completed: true,
		})
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestCheckInServiceListByHabit(t *testing.T) {
	ctx := context.Background()
	svc, _, habit := newCheckInFixture(t)

	for _, date := range []string{"2025-03-10", "2025-03-12", "2025-03-14"} {
		_, err := svc.Record(ctx, services.RecordCheckInInput{
			UserID: "u1", HabitID: habit.ID, Date: date, Completed: true,
		})
		require.NoError(t, err)
	}

	t.Run("Range bounds filter and order ascending", func(t *testing.T) {
		from := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)

		list, err := svc.ListByHabit(ctx, "u1", habit.ID, from, to)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), list[0].Period.UTC())
	})

	t.Run("Open range returns everything", func(t *testing.T) {
		list, err := svc.ListByHabit(ctx, "u1", habit.ID, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Len(t, list, 3)

		for i := 1; i < len(list); i++ {
			assert.True(t, list[i-1].Period.Before(list[i].Period))
		}
	})

	t.Run("Ownership enforced", func(t *testing.T) {
		_, err := svc.ListByHabit(ctx, "intruder", habit.ID, time.Time{}, time.Time{})
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})
}

func TestCheckInServiceHabitStats(t *testing.T) {
	ctx := context.Background()
	svc, _, habit := newCheckInFixture(t)

	asOf := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	// Three consecutive days ending today, plus an old run of two.
	for _, offset := range []int{0, 1, 2, 9, 10} {
		date := asOf.AddDate(0, 0, -offset).Format("2006-01-02")
		_, err := svc.Record(ctx, services.RecordCheckInInput{
			UserID: "u1", HabitID: habit.ID, Date: date, Completed: true,
		})
		require.NoError(t, err)
	}

	stats, err := svc.HabitStats(ctx, "u1", habit.ID, asOf)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Daily.CurrentStreak)
	assert.Equal(t, 3, stats.Daily.LongestStreak)

	assert.Equal(t, analytics.DefaultRateWindowDays, stats.Completion.WindowDays)
	assert.Equal(t, 3, stats.Completion.CompletedCount)
	assert.Equal(t, 43, stats.Completion.CompletionRate) // round(3/7*100)

	// The daily check-ins fall in two consecutive weeks: Mar 9 (offsets
	// 0-2) and Mar 2 (offsets 9-10).
	assert.Equal(t, 2, stats.Weekly.CurrentStreak)
	assert.Equal(t, 2, stats.Weekly.LongestStreak)
}

func TestCheckInServiceWeeklyHabit(t *testing.T) {
	ctx := context.Background()

	habitRepo := repository.NewInMemoryHabitRepository()
	checkInRepo := repository.NewInMemoryCheckInRepository()

	habit, err := domain.NewHabit("u1", "weekly review", "", domain.FrequencyWeekly, nil)
	require.NoError(t, err)
	require.NoError(t, habitRepo.Create(ctx, habit))

	svc := services.NewCheckInService(checkInRepo, habitRepo)

	// Two check-ins in the same week collapse onto one period.
	for _, date := range []string{"2025-03-10", "2025-03-13"} {
		_, err := svc.Record(ctx, services.RecordCheckInInput{
			UserID: "u1", HabitID: habit.ID, Date: date, Completed: true,
		})
		require.NoError(t, err)
	}

	list, err := svc.ListByHabit(ctx, "u1", habit.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), list[0].Period.UTC())
}
