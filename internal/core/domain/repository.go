package domain

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable wraps storage I/O failures so handlers can map them
// uniformly without inspecting driver errors.
var ErrStoreUnavailable = errors.New("storage unavailable")

type UserRepository interface {
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id string) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	// Search finds users whose username or email contains the query,
	// excluding the searching user. Case-insensitive.
	Search(ctx context.Context, excludeUserID, query string, limit int) ([]*User, error)

	// ListAll enumerates every user. Used by the leaderboard aggregation;
	// implementations must return a stable order.
	ListAll(ctx context.Context) ([]*User, error)
}

// HabitFilter narrows ListByUserID. Zero value means no filtering.
type HabitFilter struct {
	Category  string
	Tags      []string
	NameQuery string
}

type HabitRepository interface {
	// Create persists a new habit. Returns ErrDuplicateHabitName when the
	// user already has a habit with the same name.
	Create(ctx context.Context, habit *Habit) error

	GetByID(ctx context.Context, id string) (*Habit, error)

	ListByUserID(ctx context.Context, userID string, filter HabitFilter) ([]*Habit, error)

	Update(ctx context.Context, habit *Habit) error

	// Delete removes a habit and cascades to its check-ins.
	Delete(ctx context.Context, id string) error
}

type CheckInRepository interface {
	// Upsert inserts a check-in or, when a row already exists for the
	// (UserID, HabitID, Period) natural key, overwrites its Completed flag
	// and bumps UpdatedAt. CreatedAt is preserved on overwrite. Returns
	// the post-write row.
	Upsert(ctx context.Context, checkIn *CheckIn) (*CheckIn, error)

	// ListByHabit returns a habit's check-ins ordered by period ascending.
	// Zero from/to bounds are open-ended.
	ListByHabit(ctx context.Context, userID, habitID string, from, to time.Time) ([]*CheckIn, error)

	// ListCompletedPeriods returns the periods of completed check-ins in
	// [from, to], ordered ascending. This is the streak and rate input.
	ListCompletedPeriods(ctx context.Context, userID, habitID string, from, to time.Time) ([]time.Time, error)

	// ListRecentByUsers returns the newest check-ins across the given
	// users, most recent first. Used by the social feed.
	ListRecentByUsers(ctx context.Context, userIDs []string, limit int) ([]*CheckIn, error)
}

type FollowRepository interface {
	// Create records a follow. Returns ErrAlreadyFollowing on the unique
	// (follower, following) pair.
	Create(ctx context.Context, follow *Follow) error

	// Delete removes a follow. Returns ErrNotFollowing when absent.
	Delete(ctx context.Context, followerID, followingID string) error

	// ListFollowing returns the IDs of users the follower follows.
	ListFollowing(ctx context.Context, followerID string) ([]string, error)
}
