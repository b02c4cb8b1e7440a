package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/social-service/internal/auth"
	"github.com/spec-kit/social-service/internal/domain"
	"github.com/spec-kit/social-service/internal/repository"
	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

// UserService implements the admin-facing account operations.
type UserService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, hasher *auth.PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// Create hashes the password and stores a new account.
func (s *UserService) Create(ctx context.Context, username, email, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	id, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		return nil, apperrors.NewBadRequest("Failed to create user")
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user, err := s.users.GetByID(ctx, parsed)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns a page of accounts.
func (s *UserService) List(ctx context.Context, limit, offset int64) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get fetches one account by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid user ID")
	}

	user, err := s.users.GetByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User not found")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateBio replaces the account's bio.
func (s *UserService) UpdateBio(ctx context.Context, id string, bio *string) (*domain.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid user ID")
	}

	user, err := s.users.UpdateBio(ctx, parsed, bio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User not found")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NewBadRequest("Invalid user ID")
	}

	affected, err := s.users.Delete(ctx, parsed)
	if err != nil {
		return apperrors.MapError(err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("User not found")
	}
	return nil
}
