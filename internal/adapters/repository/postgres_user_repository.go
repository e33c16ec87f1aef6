package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "username") {
				return domain.ErrUsernameTaken
			}
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("repository: create user failed: %w", err)
	}

	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: get user failed: %w", err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE email = $1`

	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("repository: get user by email failed: %w", err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) Search(ctx context.Context, excludeUserID, query string, limit int) ([]*domain.User, error) {
	users := []*domain.User{}

	sqlQuery := `
		SELECT * FROM users
		WHERE id != $1 AND (username ILIKE $2 OR email ILIKE $2)
		ORDER BY username ASC
		LIMIT $3`

	pattern := "%" + query + "%"
	if err := r.db.SelectContext(ctx, &users, sqlQuery, excludeUserID, pattern, limit); err != nil {
		return nil, fmt.Errorf("repository: search users failed: %w", err)
	}
	return users, nil
}

// ListAll returns users in creation order so leaderboard ties resolve the
// same way on every call.
func (r *PostgresUserRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	users := []*domain.User{}

	query := `SELECT * FROM users ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("repository: list users failed: %w", err)
	}
	return users, nil
}
