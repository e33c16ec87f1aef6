package analytics

import (
	"sort"
	"time"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

// Lookback caps bound the backward walk for the current streak. They are
// practical limits on how much history a single computation scans, not
// correctness requirements; callers must supply completed periods covering
// at least the window they care about.
const (
	DefaultDailyLookback  = 365
	DefaultWeeklyLookback = 52 * 10
)

// Streaks computes the current and longest streak from a set of completed
// periods under the given cadence.
//
// The current streak counts consecutive periods present in the set, walking
// backward one cadence step at a time from asOf's period. The run must
// include the present period: a streak that ended yesterday is 0.
//
// The longest streak is the maximum consecutive run anywhere in the set,
// found by scanning the sorted periods for adjacent cadence steps.
func Streaks(completed PeriodSet, c Cadence, asOf time.Time, lookback int) domain.StreakResult {
	if lookback <= 0 {
		if c == CadenceWeekly {
			lookback = DefaultWeeklyLookback
		} else {
			lookback = DefaultDailyLookback
		}
	}

	step := c.stepSeconds()

	current := 0
	cursor := Normalize(asOf, c).Unix()
	for i := 0; i < lookback; i++ {
		if _, ok := completed[cursor]; !ok {
			break
		}
		current++
		cursor -= step
	}

	longest := 0
	if len(completed) > 0 {
		keys := make([]int64, 0, len(completed))
		for k := range completed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		longest = 1
		run := 1
		for i := 1; i < len(keys); i++ {
			if keys[i] == keys[i-1]+step {
				run++
				if run > longest {
					longest = run
				}
			} else {
				run = 1
			}
		}
	}

	return domain.StreakResult{
		CurrentStreak: current,
		LongestStreak: longest,
	}
}
