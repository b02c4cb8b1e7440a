package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/social-service/internal/api/dto"
	"github.com/spec-kit/social-service/internal/auth"
	"github.com/spec-kit/social-service/internal/service"
	apperrors "github.com/spec-kit/social-service/pkg/util/errorutil"
)

// AuthHandler exposes login and identity endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("Invalid payload")
	}

	token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{AccessToken: token})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Invalid token")
	}

	user, err := h.auth.CurrentUser(c.UserContext(), claims)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewUserResponse(user))
}
