package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza/internal/adapters/repository"
	"github.com/cadenza-app/cadenza/internal/core/domain"
	"github.com/cadenza-app/cadenza/internal/core/services"
)

type socialFixture struct {
	svc      *services.SocialService
	users    *repository.InMemoryUserRepository
	habits   *repository.InMemoryHabitRepository
	checkIns *repository.InMemoryCheckInRepository
}

func newSocialFixture(t *testing.T, usernames ...string) (*socialFixture, map[string]string) {
	t.Helper()

	f := &socialFixture{
		users:    repository.NewInMemoryUserRepository(),
		habits:   repository.NewInMemoryHabitRepository(),
		checkIns: repository.NewInMemoryCheckInRepository(),
	}
	f.svc = services.NewSocialService(repository.NewInMemoryFollowRepository(), f.users, f.habits, f.checkIns)

	ids := make(map[string]string, len(usernames))
	for _, name := range usernames {
		user, err := domain.NewUser(name+"-id", name, name+"@example.com")
		require.NoError(t, err)
		require.NoError(t, f.users.Create(context.Background(), user))
		ids[name] = user.ID
	}
	return f, ids
}

func TestSocialServiceFollow(t *testing.T) {
	ctx := context.Background()
	f, ids := newSocialFixture(t, "alice", "bob")

	t.Run("Creates the edge", func(t *testing.T) {
		follow, err := f.svc.Follow(ctx, ids["alice"], ids["bob"])
		require.NoError(t, err)
		assert.Equal(t, ids["alice"], follow.FollowerID)
		assert.Equal(t, ids["bob"], follow.FollowingID)
	})

	t.Run("Following twice reports already following", func(t *testing.T) {
		_, err := f.svc.Follow(ctx, ids["alice"], ids["bob"])
		assert.ErrorIs(t, err, domain.ErrAlreadyFollowing)
	})

	t.Run("Self follow rejected", func(t *testing.T) {
		_, err := f.svc.Follow(ctx, ids["alice"], ids["alice"])
		assert.ErrorIs(t, err, domain.ErrSelfFollow)
	})

	t.Run("Unknown target", func(t *testing.T) {
		_, err := f.svc.Follow(ctx, ids["alice"], "nobody")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestSocialServiceUnfollow(t *testing.T) {
	ctx := context.Background()
	f, ids := newSocialFixture(t, "alice", "bob")

	_, err := f.svc.Follow(ctx, ids["alice"], ids["bob"])
	require.NoError(t, err)

	t.Run("Removes the edge", func(t *testing.T) {
		require.NoError(t, f.svc.Unfollow(ctx, ids["alice"], ids["bob"]))

		friends, err := f.svc.Friends(ctx, ids["alice"])
		require.NoError(t, err)
		assert.Empty(t, friends)
	})

	t.Run("Not following", func(t *testing.T) {
		err := f.svc.Unfollow(ctx, ids["alice"], ids["bob"])
		assert.ErrorIs(t, err, domain.ErrNotFollowing)
	})
}

func TestSocialServiceFriends(t *testing.T) {
	ctx := context.Background()
	f, ids := newSocialFixture(t, "alice", "bob", "carol")

	for _, target := range []string{"bob", "carol"} {
		_, err := f.svc.Follow(ctx, ids["alice"], ids[target])
		require.NoError(t, err)
	}

	friends, err := f.svc.Friends(ctx, ids["alice"])
	require.NoError(t, err)
	require.Len(t, friends, 2)

	names := []string{friends[0].Username, friends[1].Username}
	assert.ElementsMatch(t, []string{"bob", "carol"}, names)
}

func TestSocialServiceFeed(t *testing.T) {
	ctx := context.Background()
	f, ids := newSocialFixture(t, "alice", "bob", "carol")

	habit, err := domain.NewHabit(ids["bob"], "morning run", "fitness", domain.FrequencyDaily, nil)
	require.NoError(t, err)
	require.NoError(t, f.habits.Create(ctx, habit))

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		checkIn := domain.NewCheckIn(ids["bob"], habit.ID, day.AddDate(0, 0, i), true)
		checkIn.CreatedAt = checkIn.CreatedAt.Add(time.Duration(i) * time.Second)
		_, err := f.checkIns.Upsert(ctx, checkIn)
		require.NoError(t, err)
	}

	// Carol checks in too, but alice does not follow her.
	carolHabit, err := domain.NewHabit(ids["carol"], "read", "", domain.FrequencyDaily, nil)
	require.NoError(t, err)
	require.NoError(t, f.habits.Create(ctx, carolHabit))
	_, err = f.checkIns.Upsert(ctx, domain.NewCheckIn(ids["carol"], carolHabit.ID, day, true))
	require.NoError(t, err)

	_, err = f.svc.Follow(ctx, ids["alice"], ids["bob"])
	require.NoError(t, err)

	t.Run("Only followed users, denormalized, newest first", func(t *testing.T) {
		items, err := f.svc.Feed(ctx, ids["alice"], 0)
		require.NoError(t, err)
		require.Len(t, items, 3)

		for _, item := range items {
			assert.Equal(t, "bob", item.Username)
			assert.Equal(t, "morning run", item.HabitName)
		}
		for i := 1; i < len(items); i++ {
			assert.False(t, items[i-1].CheckIn.CreatedAt.Before(items[i].CheckIn.CreatedAt))
		}
	})

	t.Run("Limit truncates", func(t *testing.T) {
		items, err := f.svc.Feed(ctx, ids["alice"], 2)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("No follows means empty feed", func(t *testing.T) {
		items, err := f.svc.Feed(ctx, ids["carol"], 0)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
