package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/social-service/internal/domain"
)

// PostRepository defines persistence access for posts.
type PostRepository interface {
	Create(ctx context.Context, authorID uuid.UUID, content string) (*domain.Post, error)
	List(ctx context.Context, limit, offset int64) ([]domain.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetAuthorID(ctx context.Context, id uuid.UUID) (string, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository returns a Postgres-backed implementation.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

func (r *postRepository) Create(ctx context.Context, authorID uuid.UUID, content string) (*domain.Post, error) {
	const query = `
        INSERT INTO posts (author_id, content)
        VALUES ($1, $2)
        RETURNING id::text, author_id::text, content, created_at`

	var post domain.Post
	if err := r.pool.QueryRow(ctx, query, authorID, content).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Content,
		&post.CreatedAt,
	); err != nil {
		return nil, err
	}
	// fresh posts have no likes yet
	post.LikeCount = 0
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int64) ([]domain.Post, error) {
	const query = `
        SELECT p.id::text, p.author_id::text, p.content, p.created_at, COUNT(l.post_id) AS like_count
        FROM posts p
        LEFT JOIN likes l ON l.post_id = p.id
        GROUP BY p.id
        ORDER BY p.created_at DESC
        LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Content,
			&post.CreatedAt,
			&post.LikeCount,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	const query = `
        SELECT p.id::text, p.author_id::text, p.content, p.created_at, COUNT(l.post_id) AS like_count
        FROM posts p
        LEFT JOIN likes l ON l.post_id = p.id
        WHERE p.id = $1
        GROUP BY p.id`

	var post domain.Post
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Content,
		&post.CreatedAt,
		&post.LikeCount,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetAuthorID(ctx context.Context, id uuid.UUID) (string, error) {
	var authorID string
	err := r.pool.QueryRow(ctx, `SELECT author_id::text FROM posts WHERE id=$1`, id).Scan(&authorID)
	return authorID, err
}

func (r *postRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM posts WHERE id=$1`, id).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	return err
}
