package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/social-service/internal/auth"
	"github.com/spec-kit/social-service/internal/domain"
	"github.com/spec-kit/social-service/internal/events"
	"github.com/spec-kit/social-service/internal/repository"
	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

// CommentService implements comment operations.
type CommentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	dispatcher events.Dispatcher
}

// NewCommentService builds the service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, posts: posts, dispatcher: dispatcher}
}

// Create stores a comment on a post. A foreign key violation means the post
// disappeared and maps to not found.
func (s *CommentService) Create(ctx context.Context, claims *auth.Claims, postID, content string) (*domain.Comment, error) {
	authorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid user ID")
	}
	parsedPost, err := uuid.Parse(postID)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid post ID")
	}

	comment, err := s.comments.Create(ctx, authorID, parsedPost, content)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, apperrors.NewNotFound("Post not found")
		}
		return nil, apperrors.NewBadRequest("Failed to create comment")
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			PostID:    postID,
			Actor:     events.Actor{UserID: claims.Subject, IsAdmin: claims.IsAdmin},
			Timestamp: time.Now(),
			Payload:   events.CommentAddedPayload{CommentID: comment.ID, Preview: preview(comment.Content)},
		})
	}
	return comment, nil
}

// ListByPost returns a post's comments, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	parsed, err := uuid.Parse(postID)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid post ID")
	}

	exists, err := s.posts.Exists(ctx, parsed)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !exists {
		return nil, apperrors.NewNotFound("Post not found")
	}

	comments, err := s.comments.ListByPost(ctx, parsed)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}
