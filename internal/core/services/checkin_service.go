package services

import (
	"context"
	"time"

	"github.com/cadenza-app/cadenza/internal/core/analytics"
	"github.com/cadenza-app/cadenza/internal/core/domain"
)

// CheckInService guards the analytics engine with ownership checks: the
// engine itself never verifies that the requesting user owns the habit.
type CheckInService struct {
	checkIns  domain.CheckInRepository
	habitRepo domain.HabitRepository
	recorder  *analytics.Recorder
}

func NewCheckInService(checkIns domain.CheckInRepository, habitRepo domain.HabitRepository) *CheckInService {
	return &CheckInService{
		checkIns:  checkIns,
		habitRepo: habitRepo,
		recorder:  analytics.NewRecorder(checkIns),
	}
}

type RecordCheckInInput struct {
	UserID    string
	HabitID   string
	Date      string
	Completed bool
}

func (s *CheckInService) Record(ctx context.Context, input RecordCheckInInput) (*domain.CheckIn, error) {
	habit, err := s.ownedHabit(ctx, input.HabitID, input.UserID)
	if err != nil {
		return nil, err
	}

	return s.recorder.Record(ctx, analytics.RecordInput{
		UserID:    input.UserID,
		HabitID:   input.HabitID,
		Frequency: habit.Frequency,
		Date:      input.Date,
		Completed: input.Completed,
	})
}

func (s *CheckInService) ListByHabit(ctx context.Context, userID, habitID string, from, to time.Time) ([]*domain.CheckIn, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	return s.checkIns.ListByHabit(ctx, userID, habitID, from, to)
}

// HabitStats computes daily streaks, weekly streaks and the trailing
// completion rate for one habit as of the given instant. Everything is
// recomputed from the store on each call.
func (s *CheckInService) HabitStats(ctx context.Context, userID, habitID string, asOf time.Time) (*domain.HabitStats, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	today := analytics.Normalize(asOf, analytics.CadenceDaily)
	dailyFrom := today.AddDate(0, 0, -analytics.DefaultDailyLookback)

	dailyPeriods, err := s.checkIns.ListCompletedPeriods(ctx, userID, habitID, dailyFrom, asOf)
	if err != nil {
		return nil, err
	}

	thisWeek := analytics.Normalize(asOf, analytics.CadenceWeekly)
	weeklyFrom := thisWeek.AddDate(0, 0, -7*analytics.DefaultWeeklyLookback)

	weeklyPeriods, err := s.checkIns.ListCompletedPeriods(ctx, userID, habitID, weeklyFrom, asOf)
	if err != nil {
		return nil, err
	}

	dailySet := analytics.NewPeriodSet(dailyPeriods, analytics.CadenceDaily)
	weeklySet := analytics.NewPeriodSet(weeklyPeriods, analytics.CadenceWeekly)

	completion, err := analytics.CompletionRate(dailySet, analytics.DefaultRateWindowDays, asOf)
	if err != nil {
		return nil, err
	}

	return &domain.HabitStats{
		Daily:      analytics.Streaks(dailySet, analytics.CadenceDaily, asOf, analytics.DefaultDailyLookback),
		Weekly:     analytics.Streaks(weeklySet, analytics.CadenceWeekly, asOf, analytics.DefaultWeeklyLookback),
		Completion: completion,
	}, nil
}

func (s *CheckInService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}
