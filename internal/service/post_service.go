package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/social-service/internal/auth"
	"github.com/spec-kit/social-service/internal/domain"
	"github.com/spec-kit/social-service/internal/events"
	"github.com/spec-kit/social-service/internal/repository"
	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

// Postgres error codes surfaced as caller-facing errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const previewLen = 80

// PostService implements post and like operations.
type PostService struct {
	posts      repository.PostRepository
	likes      repository.LikeRepository
	dispatcher events.Dispatcher
}

// NewPostService builds the service.
func NewPostService(posts repository.PostRepository, likes repository.LikeRepository, dispatcher events.Dispatcher) *PostService {
	return &PostService{posts: posts, likes: likes, dispatcher: dispatcher}
}

// Create stores a post authored by the caller.
func (s *PostService) Create(ctx context.Context, claims *auth.Claims, content string) (*domain.Post, error) {
	authorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid user ID")
	}

	post, err := s.posts.Create(ctx, authorID, content)
	if err != nil {
		return nil, apperrors.NewBadRequest("Failed to create post")
	}

	s.publish(ctx, events.Event{
		Type:    events.EventPostCreated,
		PostID:  post.ID,
		Actor:   events.Actor{UserID: claims.Subject, IsAdmin: claims.IsAdmin},
		Payload: events.PostCreatedPayload{Preview: preview(post.Content)},
	})
	return post, nil
}

// List returns a page of posts, newest first.
func (s *PostService) List(ctx context.Context, limit, offset int64) ([]domain.Post, error) {
	posts, err := s.posts.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return posts, nil
}

// Get fetches one post by id.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NewBadRequest("Invalid post ID")
	}

	post, err := s.posts.GetByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Post not found")
		}
		return nil, apperrors.MapError(err)
	}
	return post, nil
}

// Delete removes a post. The author id is read from current stored state and
// the caller must own the post or hold the admin flag.
func (s *PostService) Delete(ctx context.Context, claims *auth.Claims, id string) error {
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return apperrors.NewBadRequest("Invalid user ID")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NewBadRequest("Invalid post ID")
	}

	authorID, err := s.posts.GetAuthorID(ctx, parsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Post not found")
		}
		return apperrors.MapError(err)
	}

	if !auth.IsAuthorizedOwner(claims, authorID) {
		return apperrors.NewForbidden("You can only delete your own posts")
	}

	if err := s.posts.Delete(ctx, parsed); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Like records the caller's like on a post.
func (s *PostService) Like(ctx context.Context, claims *auth.Claims, postID string) error {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return apperrors.NewBadRequest("Invalid user ID")
	}
	parsed, err := uuid.Parse(postID)
	if err != nil {
		return apperrors.NewBadRequest("Invalid post ID")
	}

	if err := s.likes.Create(ctx, userID, parsed); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return apperrors.NewConflict("Post already liked")
			case pgForeignKeyViolation:
				return apperrors.NewNotFound("Post not found")
			}
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:   events.EventPostLiked,
		PostID: postID,
		Actor:  events.Actor{UserID: claims.Subject, IsAdmin: claims.IsAdmin},
	})
	return nil
}

// Unlike removes the caller's like from a post.
func (s *PostService) Unlike(ctx context.Context, claims *auth.Claims, postID string) error {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return apperrors.NewBadRequest("Invalid user ID")
	}
	parsed, err := uuid.Parse(postID)
	if err != nil {
		return apperrors.NewBadRequest("Invalid post ID")
	}

	affected, err := s.likes.Delete(ctx, userID, parsed)
	if err != nil {
		return apperrors.MapError(err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("Post or like not found")
	}
	return nil
}

func (s *PostService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(content string) string {
	if len(content) <= previewLen {
		return content
	}
	return content[:previewLen]
}
