package dto

import (
	"time"

	"github.com/spec-kit/social-service/internal/domain"
)

// CreatePostRequest payload for new posts.
type CreatePostRequest struct {
	Content string `json:"content"`
}

// PostResponse is the public post representation.
type PostResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	LikeCount int64     `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPostResponse maps a domain post to its wire form.
func NewPostResponse(post *domain.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		LikeCount: post.LikeCount,
		CreatedAt: post.CreatedAt,
	}
}

// NewPostResponses maps a slice of domain posts.
func NewPostResponses(posts []domain.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostResponse(&posts[i]))
	}
	return out
}
