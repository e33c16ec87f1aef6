package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

type PostgresFollowRepository struct {
	db *sqlx.DB
}

func NewPostgresFollowRepository(db *sqlx.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) Create(ctx context.Context, follow *domain.Follow) error {
	query := `
		INSERT INTO follows (id, follower_id, following_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		follow.ID, follow.FollowerID, follow.FollowingID, follow.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code == "23505" {
				return domain.ErrAlreadyFollowing
			}
			if pqErr.Code == "23503" {
				return domain.ErrUserNotFound
			}
		}
		return fmt.Errorf("repository: create follow failed: %w", err)
	}
	return nil
}

func (r *PostgresFollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return fmt.Errorf("repository: delete follow failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

func (r *PostgresFollowRepository) ListFollowing(ctx context.Context, followerID string) ([]string, error) {
	ids := []string{}

	query := `SELECT following_id FROM follows WHERE follower_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &ids, query, followerID); err != nil {
		return nil, fmt.Errorf("repository: list following failed: %w", err)
	}
	return ids, nil
}
