package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/social-service/internal/domain"
)

// LoginRecord is the credential row fetched during login. The auth layer
// treats it as opaque input; it is never cached.
type LoginRecord struct {
	ID           string
	PasswordHash string
	IsAdmin      bool
}

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetLoginByEmail(ctx context.Context, email string) (*LoginRecord, error)
	List(ctx context.Context, limit, offset int64) ([]domain.User, error)
	UpdateBio(ctx context.Context, id uuid.UUID, bio *string) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, username, email, passwordHash string) (string, error) {
	const query = `
        INSERT INTO users (username, email, password_hash, bio)
        VALUES ($1, $2, $3, $4)
        RETURNING id::text`

	var id string
	err := r.pool.QueryRow(ctx, query, username, email, passwordHash, nil).Scan(&id)
	return id, err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
        SELECT id::text, username, email, bio, is_admin, created_at
        FROM users WHERE id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Bio,
		&user.IsAdmin,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetLoginByEmail(ctx context.Context, email string) (*LoginRecord, error) {
	const query = `
        SELECT id::text, password_hash, is_admin
        FROM users WHERE email=$1`

	var rec LoginRecord
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&rec.ID,
		&rec.PasswordHash,
		&rec.IsAdmin,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int64) ([]domain.User, error) {
	const query = `
        SELECT id::text, username, email, bio, is_admin, created_at
        FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Bio,
			&user.IsAdmin,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateBio(ctx context.Context, id uuid.UUID, bio *string) (*domain.User, error) {
	const query = `
        UPDATE users SET bio=$2
        WHERE id=$1
        RETURNING id::text, username, email, bio, is_admin, created_at`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id, bio).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Bio,
		&user.IsAdmin,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
