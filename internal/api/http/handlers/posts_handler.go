package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/social-service/internal/api/dto"
	"github.com/spec-kit/social-service/internal/auth"
	"github.com/spec-kit/social-service/internal/service"
	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

const defaultPageLimit = 20

// PostsHandler exposes post and like endpoints.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{posts: postService}
}

func pagination(c *fiber.Ctx) (int64, int64) {
	return int64(c.QueryInt("limit", defaultPageLimit)), int64(c.QueryInt("offset", 0))
}

func requireClaims(c *fiber.Ctx) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("Invalid token")
	}
	return claims, nil
}

// Create handles POST /posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid payload")
	}

	post, err := h.posts.Create(c.UserContext(), claims, req.Content)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewPostResponse(post))
}

// List handles GET /posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	posts, err := h.posts.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewPostResponses(posts))
}

// Get handles GET /posts/:postID.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	post, err := h.posts.Get(c.UserContext(), c.Params("postID"))
	if err != nil {
		return err
	}

	return c.JSON(dto.NewPostResponse(post))
}

// Delete handles DELETE /posts/:postID.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	if err := h.posts.Delete(c.UserContext(), claims, c.Params("postID")); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}

// Like handles POST /posts/:postID/like.
func (h *PostsHandler) Like(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	if err := h.posts.Like(c.UserContext(), claims, c.Params("postID")); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}

// Unlike handles DELETE /posts/:postID/like.
func (h *PostsHandler) Unlike(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	if err := h.posts.Unlike(c.UserContext(), claims, c.Params("postID")); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}
