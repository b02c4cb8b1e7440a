package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/social-service/internal/domain"
)

// CommentRepository defines persistence access for comments.
type CommentRepository interface {
	Create(ctx context.Context, authorID, postID uuid.UUID, content string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a Postgres-backed implementation.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, authorID, postID uuid.UUID, content string) (*domain.Comment, error) {
	const query = `
        INSERT INTO comments (author_id, post_id, content)
        VALUES ($1, $2, $3)
        RETURNING id::text, author_id::text, post_id::text, content, created_at`

	var comment domain.Comment
	if err := r.pool.QueryRow(ctx, query, authorID, postID, content).Scan(
		&comment.ID,
		&comment.AuthorID,
		&comment.PostID,
		&comment.Content,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	const query = `
        SELECT id::text, author_id::text, post_id::text, content, created_at
        FROM comments WHERE post_id=$1
        ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.AuthorID,
			&comment.PostID,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
