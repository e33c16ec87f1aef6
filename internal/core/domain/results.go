package domain

// Derived analytics values. None of these are persisted; each call
// recomputes them from the check-in store.

type StreakResult struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

type CompletionRateResult struct {
	WindowDays     int `json:"days"`
	CompletedCount int `json:"done"`
	CompletionRate int `json:"completion_rate"`
}

// HabitStats is the per-habit analytics surface: daily and weekly streaks
// plus the trailing completion rate.
type HabitStats struct {
	Daily      StreakResult         `json:"daily"`
	Weekly     StreakResult         `json:"weekly"`
	Completion CompletionRateResult `json:"completion"`
}

// LeaderboardRow is one user's aggregate across all their habits: the
// maximum current and longest streak, and the rounded mean of per-habit
// trailing completion rates.
type LeaderboardRow struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	CurrentStreak  int    `json:"current"`
	LongestStreak  int    `json:"longest"`
	CompletionRate int    `json:"completion_rate"`
}

// FeedItem is one followed user's check-in, denormalized for display.
type FeedItem struct {
	CheckIn   CheckIn `json:"check_in"`
	Username  string  `json:"username"`
	HabitName string  `json:"habit_name"`
}
