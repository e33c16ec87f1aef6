package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

type habitRow struct {
	domain.Habit
	TagsArray pq.StringArray `db:"tags"`
}

func (row *habitRow) toDomain() *domain.Habit {
	h := row.Habit
	h.Tags = []string(row.TagsArray)
	return &h
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
		INSERT INTO habits (id, user_id, name, category, frequency, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.UserID, h.Name, h.Category, h.Frequency,
		pq.Array(h.Tags), h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateHabitName
		}
		return fmt.Errorf("repository: create habit failed: %w", err)
	}
	return nil
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var row habitRow
	query := `SELECT * FROM habits WHERE id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("repository: get habit failed: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string, filter domain.HabitFilter) ([]*domain.Habit, error) {
	query := `SELECT * FROM habits WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if len(filter.Tags) > 0 {
		args = append(args, pq.Array(filter.Tags))
		query += fmt.Sprintf(" AND tags && $%d", len(args))
	}
	if filter.NameQuery != "" {
		args = append(args, "%"+filter.NameQuery+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows := []habitRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("repository: list habits failed: %w", err)
	}

	habits := make([]*domain.Habit, 0, len(rows))
	for i := range rows {
		habits = append(habits, rows[i].toDomain())
	}
	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	query := `
		UPDATE habits
		SET name = $1, category = $2, frequency = $3, tags = $4, updated_at = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		h.Name, h.Category, h.Frequency, pq.Array(h.Tags), h.UpdatedAt, h.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateHabitName
		}
		return fmt.Errorf("repository: update habit failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

// Delete removes the habit; check_ins cascade via the foreign key.
func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: delete habit failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}
