// internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authService "perpusku_backend/internals/features/users/auth/service"
	userDTO "perpusku_backend/internals/features/users/user/dto"
	helper "perpusku_backend/internals/helpers"
)

type AuthController struct {
	DB *gorm.DB
}

var validate = validator.New()

/* =========================
   Request DTO
========================= */

type RegisterRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"` // email atau username
	Password   string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

/* =========================
   Handlers
========================= */

// POST /api/auth/register
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := authService.Register(h.DB, req.UserName, req.Email, req.Password)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Registrasi berhasil", userDTO.ToUserResponse(user))
}

// POST /api/auth/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, pair, err := authService.Login(h.DB, c, req.Identifier, req.Password)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Login berhasil", fiber.Map{
		"user":   userDTO.ToUserResponse(user),
		"tokens": pair,
	})
}

// POST /api/auth/login/google
func (h *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, pair, err := authService.LoginGoogle(h.DB, c, req.IDToken)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Login berhasil", fiber.Map{
		"user":   userDTO.ToUserResponse(user),
		"tokens": pair,
	})
}

// POST /api/auth/refresh-token
func (h *AuthController) Refresh(c *fiber.Ctx) error {
	refresh := helper.GetRefreshTokenFromCookie(c)
	if refresh == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&body); err == nil {
			refresh = strings.TrimSpace(body.RefreshToken)
		}
	}
	if refresh == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ditemukan")
	}

	pair, err := authService.Refresh(h.DB, c, refresh)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Token diperbarui", pair)
}

// POST /api/auth/logout
func (h *AuthController) Logout(c *fiber.Ctx) error {
	access := helper.GetRawAccessToken(c)
	refresh := helper.GetRefreshTokenFromCookie(c)
	if err := authService.Logout(h.DB, c, access, refresh); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Logout berhasil", nil)
}
