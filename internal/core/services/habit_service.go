package services

import (
	"context"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

type HabitService struct {
	repo domain.HabitRepository
}

func NewHabitService(repo domain.HabitRepository) *HabitService {
	return &HabitService{
		repo: repo,
	}
}

type CreateHabitInput struct {
	UserID    string
	Name      string
	Category  string
	Frequency string
	Tags      []string
}

type UpdateHabitInput struct {
	ID        string
	UserID    string
	Name      string
	Category  string
	Frequency string
	Tags      []string
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.UserID, input.Name, input.Category, input.Frequency, input.Tags)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) GetByID(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string, filter domain.HabitFilter) ([]*domain.Habit, error) {
	filter.Tags = domain.NormalizeTags(filter.Tags)
	return s.repo.ListByUserID(ctx, userID, filter)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = habit.Name
	}

	category := input.Category
	if category == "" {
		category = habit.Category
	}

	if err := habit.Update(name, category, input.Frequency, input.Tags); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
