package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

type PostgresCheckInRepository struct {
	db *sqlx.DB
}

func NewPostgresCheckInRepository(db *sqlx.DB) *PostgresCheckInRepository {
	return &PostgresCheckInRepository{db: db}
}

// Upsert writes one row per (user, habit, period). The unique index on the
// natural key is the serialization point for concurrent recordings of the
// same triple: ON CONFLICT turns the second writer into an update, so the
// final state is one of the writers' values, never a duplicate row.
func (r *PostgresCheckInRepository) Upsert(ctx context.Context, checkIn *domain.CheckIn) (*domain.CheckIn, error) {
	if checkIn.ID == "" {
		checkIn.ID = uuid.NewString()
	}

	query := `
		INSERT INTO check_ins (id, user_id, habit_id, period, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, habit_id, period)
		DO UPDATE SET completed = EXCLUDED.completed, updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, habit_id, period, completed, created_at, updated_at`

	var saved domain.CheckIn
	err := r.db.GetContext(ctx, &saved, query,
		checkIn.ID, checkIn.UserID, checkIn.HabitID,
		checkIn.Period, checkIn.Completed,
		checkIn.CreatedAt, checkIn.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("repository: upsert check-in failed: %w", err)
	}

	return &saved, nil
}

func (r *PostgresCheckInRepository) ListByHabit(ctx context.Context, userID, habitID string, from, to time.Time) ([]*domain.CheckIn, error) {
	query := `
		SELECT id, user_id, habit_id, period, completed, created_at, updated_at
		FROM check_ins
		WHERE user_id = $1 AND habit_id = $2`
	args := []interface{}{userID, habitID}

	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND period >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND period <= $%d", len(args))
	}
	query += " ORDER BY period ASC"

	checkIns := []*domain.CheckIn{}
	if err := r.db.SelectContext(ctx, &checkIns, query, args...); err != nil {
		return nil, fmt.Errorf("repository: list check-ins failed: %w", err)
	}
	return checkIns, nil
}

func (r *PostgresCheckInRepository) ListCompletedPeriods(ctx context.Context, userID, habitID string, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT period FROM check_ins
		WHERE user_id = $1 AND habit_id = $2 AND completed = TRUE
		  AND period >= $3 AND period <= $4
		ORDER BY period ASC`

	periods := []time.Time{}
	if err := r.db.SelectContext(ctx, &periods, query, userID, habitID, from, to); err != nil {
		return nil, fmt.Errorf("repository: list completed periods failed: %w", err)
	}
	return periods, nil
}

func (r *PostgresCheckInRepository) ListRecentByUsers(ctx context.Context, userIDs []string, limit int) ([]*domain.CheckIn, error) {
	query := `
		SELECT id, user_id, habit_id, period, completed, created_at, updated_at
		FROM check_ins
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2`

	checkIns := []*domain.CheckIn{}
	err := r.db.SelectContext(ctx, &checkIns, query, pq.Array(userIDs), limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return checkIns, nil
		}
		return nil, fmt.Errorf("repository: list recent check-ins failed: %w", err)
	}
	return checkIns, nil
}
