package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supplier-service/internal/api/dto"
	"github.com/spec-kit/supplier-service/internal/auth"
	"github.com/spec-kit/supplier-service/internal/domain"
	"github.com/spec-kit/supplier-service/internal/service"
	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

// UsersHandler exposes administrative account management.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Create handles POST /users (admin only). Unlike self-registration the role
// field is honored here.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	user, err := h.auth.AdminCreateUser(c.Context(), req.Username, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"user": dto.NewUserView(user)})
}

// Update handles PUT /users/:id (admin only).
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.AdminUserUpdateRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	upd := service.AdminUserUpdate{
		Username: req.Username,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		upd.Role = &role
	}
	if fh, err := c.FormFile("avatar"); err == nil {
		upd.Avatar = fh
	}

	user, err := h.auth.AdminUpdateUser(c.Context(), c.Params("id"), upd)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserView(user)})
}

// Delete handles DELETE /users/:id (admin only).
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.auth.AdminDeleteUser(c.Context(), principal.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
