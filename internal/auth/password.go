package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/social-service/internal/worker"
	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

// PasswordHasher hashes and verifies credentials on a bounded worker pool so
// bcrypt never stalls request goroutines competing for CPU.
type PasswordHasher struct {
	cost int
	pool *worker.Pool
}

// NewPasswordHasher builds a hasher with the configured cost, clamped to the
// bcrypt-supported range.
func NewPasswordHasher(cost int, pool *worker.Pool) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost, pool: pool}
}

// Hash computes the salted bcrypt hash of password. A dispatch failure and a
// bcrypt failure are both internal errors but carry distinct causes.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	type result struct {
		hash []byte
		err  error
	}
	done := make(chan result, 1)

	if err := h.pool.Submit(ctx, func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		done <- result{hash: hash, err: err}
	}); err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("hash dispatch: %w", err))
	}

	res := <-done
	if res.err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("hash password: %w", res.err))
	}
	return string(res.hash), nil
}

// Verify reports whether password matches hash. A mismatch is (false, nil);
// only a malformed hash or a dispatch failure produces an error.
func (h *PasswordHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	done := make(chan error, 1)

	if err := h.pool.Submit(ctx, func() {
		done <- bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	}); err != nil {
		return false, apperrors.NewInternalError(fmt.Errorf("verify dispatch: %w", err))
	}

	err := <-done
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, apperrors.NewInternalError(fmt.Errorf("verify password: %w", err))
	}
}
