package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

// In-memory repositories backing tests and local development. Each guards
// its map with a mutex; the check-in repository serializes upserts on it,
// which stands in for the database's natural-key constraint.

type InMemoryUserRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.User
	order []string
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{store: make(map[string]*domain.User)}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
		if strings.EqualFold(u.Username, user.Username) {
			return domain.ErrUsernameTaken
		}
	}

	r.store[user.ID] = user
	r.order = append(r.order, user.ID)
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) Search(ctx context.Context, excludeUserID, query string, limit int) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var found []*domain.User
	for _, id := range r.order {
		u := r.store[id]
		if u.ID == excludeUserID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(u.Email, q) {
			found = append(found, u)
			if len(found) == limit {
				break
			}
		}
	}
	return found, nil
}

func (r *InMemoryUserRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.store[id])
	}
	return users, nil
}

type InMemoryHabitRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.Habit
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{store: make(map[string]*domain.Habit)}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range r.store {
		if h.UserID == habit.UserID && strings.EqualFold(h.Name, habit.Name) {
			return domain.ErrDuplicateHabitName
		}
	}

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string, filter domain.HabitFilter) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID != userID {
			continue
		}
		if filter.Category != "" && h.Category != filter.Category {
			continue
		}
		if filter.NameQuery != "" && !strings.Contains(strings.ToLower(h.Name), strings.ToLower(filter.NameQuery)) {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(h.Tags, filter.Tags) {
			continue
		}
		habits = append(habits, h)
	}

	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})
	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[habit.ID]; !ok {
		return domain.ErrHabitNotFound
	}
	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrHabitNotFound
	}
	delete(r.store, id)
	return nil
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

type InMemoryCheckInRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.CheckIn // keyed by natural key
}

func NewInMemoryCheckInRepository() *InMemoryCheckInRepository {
	return &InMemoryCheckInRepository{store: make(map[string]*domain.CheckIn)}
}

func naturalKey(userID, habitID string, period time.Time) string {
	return userID + "|" + habitID + "|" + period.UTC().Format("2006-01-02")
}

func (r *InMemoryCheckInRepository) Upsert(ctx context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := naturalKey(checkIn.UserID, checkIn.HabitID, checkIn.Period)

	if existing, ok := r.store[key]; ok {
		existing.Completed = checkIn.Completed
		existing.UpdatedAt = time.Now().UTC()
		copied := *existing
		return &copied, nil
	}

	if checkIn.ID == "" {
		checkIn.ID = uuid.NewString()
	}
	stored := *checkIn
	r.store[key] = &stored

	copied := stored
	return &copied, nil
}

func (r *InMemoryCheckInRepository) ListByHabit(ctx context.Context, userID, habitID string, from, to time.Time) ([]*domain.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var checkIns []*domain.CheckIn
	for _, c := range r.store {
		if c.UserID != userID || c.HabitID != habitID {
			continue
		}
		if !from.IsZero() && c.Period.Before(from) {
			continue
		}
		if !to.IsZero() && c.Period.After(to) {
			continue
		}
		copied := *c
		checkIns = append(checkIns, &copied)
	}

	sort.Slice(checkIns, func(i, j int) bool {
		return checkIns[i].Period.Before(checkIns[j].Period)
	})
	return checkIns, nil
}

func (r *InMemoryCheckInRepository) ListCompletedPeriods(ctx context.Context, userID, habitID string, from, to time.Time) ([]time.Time, error) {
	checkIns, err := r.ListByHabit(ctx, userID, habitID, from, to)
	if err != nil {
		return nil, err
	}

	periods := make([]time.Time, 0, len(checkIns))
	for _, c := range checkIns {
		if c.Completed {
			periods = append(periods, c.Period)
		}
	}
	return periods, nil
}

func (r *InMemoryCheckInRepository) ListRecentByUsers(ctx context.Context, userIDs []string, limit int) ([]*domain.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}

	var checkIns []*domain.CheckIn
	for _, c := range r.store {
		if wanted[c.UserID] {
			copied := *c
			checkIns = append(checkIns, &copied)
		}
	}

	sort.Slice(checkIns, func(i, j int) bool {
		return checkIns[i].CreatedAt.After(checkIns[j].CreatedAt)
	})

	if len(checkIns) > limit {
		checkIns = checkIns[:limit]
	}
	return checkIns, nil
}

type InMemoryFollowRepository struct {
	mu    sync.RWMutex
	store map[string]*domain.Follow // keyed by follower|following
}

func NewInMemoryFollowRepository() *InMemoryFollowRepository {
	return &InMemoryFollowRepository{store: make(map[string]*domain.Follow)}
}

func (r *InMemoryFollowRepository) Create(ctx context.Context, follow *domain.Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := follow.FollowerID + "|" + follow.FollowingID
	if _, ok := r.store[key]; ok {
		return domain.ErrAlreadyFollowing
	}
	r.store[key] = follow
	return nil
}

func (r *InMemoryFollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := followerID + "|" + followingID
	if _, ok := r.store[key]; !ok {
		return domain.ErrNotFollowing
	}
	delete(r.store, key)
	return nil
}

func (r *InMemoryFollowRepository) ListFollowing(ctx context.Context, followerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var follows []*domain.Follow
	for _, f := range r.store {
		if f.FollowerID == followerID {
			follows = append(follows, f)
		}
	}

	sort.Slice(follows, func(i, j int) bool {
		return follows[i].CreatedAt.Before(follows[j].CreatedAt)
	})

	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FollowingID)
	}
	return ids, nil
}
