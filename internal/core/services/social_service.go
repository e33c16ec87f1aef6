package services

import (
	"context"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

const maxFeedLimit = 100

type SocialService struct {
	follows  domain.FollowRepository
	users    domain.UserRepository
	habits   domain.HabitRepository
	checkIns domain.CheckInRepository
}

func NewSocialService(follows domain.FollowRepository, users domain.UserRepository, habits domain.HabitRepository, checkIns domain.CheckInRepository) *SocialService {
	return &SocialService{
		follows:  follows,
		users:    users,
		habits:   habits,
		checkIns: checkIns,
	}
}

// Follow is idempotent: following someone twice reports ErrAlreadyFollowing
// without creating a second edge.
func (s *SocialService) Follow(ctx context.Context, followerID, targetID string) (*domain.Follow, error) {
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	follow, err := domain.NewFollow(followerID, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.follows.Create(ctx, follow); err != nil {
		return nil, err
	}

	return follow, nil
}

func (s *SocialService) Unfollow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return domain.ErrSelfFollow
	}
	return s.follows.Delete(ctx, followerID, targetID)
}

func (s *SocialService) Friends(ctx context.Context, userID string) ([]*domain.User, error) {
	ids, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			if err == domain.ErrUserNotFound {
				continue
			}
			return nil, err
		}
		friends = append(friends, user)
	}

	return friends, nil
}

// Feed returns the most recent check-ins of followed users, newest first,
// denormalized with usernames and habit names.
func (s *SocialService) Feed(ctx context.Context, userID string, limit int) ([]domain.FeedItem, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	ids, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.FeedItem{}, nil
	}

	checkIns, err := s.checkIns.ListRecentByUsers(ctx, ids, limit)
	if err != nil {
		return nil, err
	}

	usernames := make(map[string]string)
	habitNames := make(map[string]string)

	items := make([]domain.FeedItem, 0, len(checkIns))
	for _, c := range checkIns {
		if _, ok := usernames[c.UserID]; !ok {
			user, err := s.users.GetByID(ctx, c.UserID)
			if err != nil {
				return nil, err
			}
			usernames[c.UserID] = user.Username
		}
		if _, ok := habitNames[c.HabitID]; !ok {
			habit, err := s.habits.GetByID(ctx, c.HabitID)
			if err != nil {
				if err == domain.ErrHabitNotFound {
					habitNames[c.HabitID] = ""
				} else {
					return nil, err
				}
			} else {
				habitNames[c.HabitID] = habit.Name
			}
		}

		items = append(items, domain.FeedItem{
			CheckIn:   *c,
			Username:  usernames[c.UserID],
			HabitName: habitNames[c.HabitID],
		})
	}

	return items, nil
}
