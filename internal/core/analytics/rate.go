package analytics

import (
	"math"
	"time"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

// DefaultRateWindowDays is the trailing window used by habit stats and the
// leaderboard.
const DefaultRateWindowDays = 7

// CompletionRate computes the share of completed days in the windowDays
// consecutive daily periods ending at (and including) asOf's day, as an
// integer percentage rounded half up.
//
// The computation is daily-only: weekly habits contribute their daily-keyed
// check-ins like any other, with no special casing.
func CompletionRate(completed PeriodSet, windowDays int, asOf time.Time) (domain.CompletionRateResult, error) {
	if windowDays < 1 {
		return domain.CompletionRateResult{}, ErrInvalidWindow
	}

	end := Normalize(asOf, CadenceDaily).Unix()
	start := end - int64(windowDays-1)*secondsPerDay

	count := 0
	for key := range completed {
		if key >= start && key <= end {
			count++
		}
	}

	rate := int(math.Floor(float64(count)/float64(windowDays)*100 + 0.5))

	return domain.CompletionRateResult{
		WindowDays:     windowDays,
		CompletedCount: count,
		CompletionRate: rate,
	}, nil
}
