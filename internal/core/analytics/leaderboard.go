package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

const (
	// MaxLeaderboardLimit caps response size regardless of what the caller
	// asks for.
	MaxLeaderboardLimit     = 100
	DefaultLeaderboardLimit = 50
	DefaultWorkers          = 8
)

type Metric string

const (
	MetricCurrent    Metric = "current"
	MetricLongest    Metric = "longest"
	MetricCompletion Metric = "completion"
)

// ParseMetric is lenient: anything unrecognized falls back to current.
func ParseMetric(s string) Metric {
	switch Metric(s) {
	case MetricLongest:
		return MetricLongest
	case MetricCompletion:
		return MetricCompletion
	default:
		return MetricCurrent
	}
}

type UserDirectory interface {
	ListAll(ctx context.Context) ([]*domain.User, error)
}

type HabitDirectory interface {
	ListByUserID(ctx context.Context, userID string, filter domain.HabitFilter) ([]*domain.Habit, error)
}

type CheckInReader interface {
	ListCompletedPeriods(ctx context.Context, userID, habitID string, from, to time.Time) ([]time.Time, error)
}

// Aggregator builds the cross-user leaderboard. Each (user, habit) pair
// costs one bounded range read of completed periods, so users are fanned
// out across a fixed-size worker pool; everything after the read is pure
// in-memory computation.
type Aggregator struct {
	users    UserDirectory
	habits   HabitDirectory
	checkIns CheckInReader
	workers  int
}

func NewAggregator(users UserDirectory, habits HabitDirectory, checkIns CheckInReader, workers int) *Aggregator {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Aggregator{
		users:    users,
		habits:   habits,
		checkIns: checkIns,
		workers:  workers,
	}
}

type LeaderboardInput struct {
	Metric Metric
	Limit  int

	// AsOf is the reference instant for streaks and rates; zero means now.
	AsOf time.Time
}

// Leaderboard computes one row per user, sorted descending by the selected
// metric. Streaks are computed on daily cadence for every habit, weekly
// ones included, matching the historical behavior clients rank against.
// Ties keep the user enumeration order, so a fixed snapshot always yields
// an identical sequence. Any store failure aborts the whole ranking; a
// partial leaderboard is worse than none.
func (a *Aggregator) Leaderboard(ctx context.Context, input LeaderboardInput) ([]domain.LeaderboardRow, error) {
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	users, err := a.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: list users: %w", err)
	}
	if len(users) == 0 {
		return []domain.LeaderboardRow{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rows := make([]domain.LeaderboardRow, len(users))
	jobs := make(chan int)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	workers := a.workers
	if workers > len(users) {
		workers = len(users)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				row, err := a.userRow(ctx, users[i], asOf)
				if err != nil {
					fail(err)
					return
				}
				rows[i] = row
			}
		}()
	}

	for i := range users {
		select {
		case jobs <- i:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		switch input.Metric {
		case MetricLongest:
			return rows[i].LongestStreak > rows[j].LongestStreak
		case MetricCompletion:
			return rows[i].CompletionRate > rows[j].CompletionRate
		default:
			return rows[i].CurrentStreak > rows[j].CurrentStreak
		}
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// userRow folds one user's habits: max current streak, max longest streak,
// rounded mean of per-habit trailing completion rates. A user with no
// habits still gets a row, all zeros.
func (a *Aggregator) userRow(ctx context.Context, user *domain.User, asOf time.Time) (domain.LeaderboardRow, error) {
	row := domain.LeaderboardRow{
		UserID:   user.ID,
		Username: user.Username,
	}

	habits, err := a.habits.ListByUserID(ctx, user.ID, domain.HabitFilter{})
	if err != nil {
		return row, fmt.Errorf("leaderboard: list habits for %s: %w", user.ID, err)
	}
	if len(habits) == 0 {
		return row, nil
	}

	from := Normalize(asOf, CadenceDaily).AddDate(0, 0, -DefaultDailyLookback)

	rateSum := 0
	for _, h := range habits {
		periods, err := a.checkIns.ListCompletedPeriods(ctx, user.ID, h.ID, from, asOf)
		if err != nil {
			return row, fmt.Errorf("leaderboard: periods for habit %s: %w", h.ID, err)
		}

		set := NewPeriodSet(periods, CadenceDaily)

		streaks := Streaks(set, CadenceDaily, asOf, DefaultDailyLookback)
		if streaks.CurrentStreak > row.CurrentStreak {
			row.CurrentStreak = streaks.CurrentStreak
		}
		if streaks.LongestStreak > row.LongestStreak {
			row.LongestStreak = streaks.LongestStreak
		}

		rate, err := CompletionRate(set, DefaultRateWindowDays, asOf)
		if err != nil {
			return row, err
		}
		rateSum += rate.CompletionRate
	}

	row.CompletionRate = int(math.Floor(float64(rateSum)/float64(len(habits)) + 0.5))
	return row, nil
}
