package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/social-service/internal/api/dto"
	"github.com/spec-kit/social-service/internal/service"
	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

// CommentsHandler exposes comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: commentService}
}

// Create handles POST /posts/:postID/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid payload")
	}

	comment, err := h.comments.Create(c.UserContext(), claims, c.Params("postID"), req.Content)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewCommentResponse(comment))
}

// List handles GET /posts/:postID/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	comments, err := h.comments.ListByPost(c.UserContext(), c.Params("postID"))
	if err != nil {
		return err
	}

	return c.JSON(dto.NewCommentResponses(comments))
}
