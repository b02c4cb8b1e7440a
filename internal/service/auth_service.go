package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/social-service/internal/auth"
	"github.com/spec-kit/social-service/internal/config"
	"github.com/spec-kit/social-service/internal/domain"
	"github.com/spec-kit/social-service/internal/repository"
	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

// AuthService coordinates login and identity lookups.
type AuthService struct {
	users    repository.UserRepository
	hasher   *auth.PasswordHasher
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, hasher *auth.PasswordHasher) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// Login authenticates by email and password and issues an access token. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	rec, err := s.users.GetLoginByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewUnauthorized("Invalid credentials")
		}
		return "", apperrors.MapError(err)
	}

	ok, err := s.hasher.Verify(ctx, password, rec.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.NewUnauthorized("Invalid credentials")
	}

	token, _, err := s.tokenMgr.Generate(rec.ID, rec.IsAdmin)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return token, nil
}

// CurrentUser resolves the caller's account from verified claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid user ID")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("User not found")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
