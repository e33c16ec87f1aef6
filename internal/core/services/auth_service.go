package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cadenza-app/cadenza/internal/core/domain"
)

type AuthService struct {
	repo domain.UserRepository
}

func NewAuthService(repo domain.UserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	user, err := domain.NewUser(uuid.NewString(), input.Username, input.Email)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if err == domain.ErrEmailAlreadyExists || err == domain.ErrUsernameTaken {
			return nil, err
		}
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: lookup failed: %w", err)
	}

	if err := user.CheckPassword(input.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AuthService) SearchUsers(ctx context.Context, requesterID, query string, limit int) ([]*domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return s.repo.Search(ctx, requesterID, query, limit)
}
