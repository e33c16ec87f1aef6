package services

import (
	"context"
	"time"

	"github.com/cadenza-app/cadenza/internal/core/analytics"
	"github.com/cadenza-app/cadenza/internal/core/domain"
)

// LeaderboardService binds the analytics aggregator to the repositories.
type LeaderboardService struct {
	aggregator *analytics.Aggregator
}

func NewLeaderboardService(users domain.UserRepository, habits domain.HabitRepository, checkIns domain.CheckInRepository, workers int) *LeaderboardService {
	return &LeaderboardService{
		aggregator: analytics.NewAggregator(users, habits, checkIns, workers),
	}
}

func (s *LeaderboardService) Rank(ctx context.Context, metric string, limit int) ([]domain.LeaderboardRow, error) {
	return s.aggregator.Leaderboard(ctx, analytics.LeaderboardInput{
		Metric: analytics.ParseMetric(metric),
		Limit:  limit,
		AsOf:   time.Now().UTC(),
	})
}
