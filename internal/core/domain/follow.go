package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")
)

type Follow struct {
	ID          string    `json:"id" db:"id"`
	FollowerID  string    `json:"follower_id" db:"follower_id"`
	FollowingID string    `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func NewFollow(followerID, followingID string) (*Follow, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	return &Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
