package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/social-service/internal/api/dto"
	"github.com/spec-kit/social-service/internal/auth"
	"github.com/spec-kit/social-service/internal/service"
	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

// UsersHandler exposes admin-only account management endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

func requireAdmin(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok || !auth.IsAuthorizedAdmin(claims) {
		return apperrors.NewForbidden("Admin access required")
	}
	return nil
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid payload")
	}

	user, err := h.users.Create(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewUserResponse(user))
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	limit, offset := pagination(c)
	users, err := h.users.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewUserResponses(users))
}

// Get handles GET /users/:userID.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	user, err := h.users.Get(c.UserContext(), c.Params("userID"))
	if err != nil {
		return err
	}

	return c.JSON(dto.NewUserResponse(user))
}

// Update handles PUT /users/:userID.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid payload")
	}

	user, err := h.users.UpdateBio(c.UserContext(), c.Params("userID"), req.Bio)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewUserResponse(user))
}

// Delete handles DELETE /users/:userID.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	if err := h.users.Delete(c.UserContext(), c.Params("userID")); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}
