package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-desk/internal/api/dto"
	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/service"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// AuthHandler exposes access-code login.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Code == "" {
		return apperrors.NewValidationError("code required", nil)
	}
	res, err := h.service.Login(c.UserContext(), domain.Role(req.Role), req.Code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Role:      string(res.Role),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}})
}
