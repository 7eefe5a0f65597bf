package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/access"
	"github.com/tu-usuario/almacen-api/internal/application/auth"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
)

// AdminHandler agrupa la administración de usuarios, roles y permisos.
type AdminHandler struct {
	users    *auth.UserAdminUseCase
	registry *access.RegistryUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(users *auth.UserAdminUseCase, registry *access.RegistryUseCase) *AdminHandler {
	return &AdminHandler{users: users, registry: registry}
}

// CreateUser maneja POST /api/admin/users.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	user, err := h.users.CreateUser(c.Context(), ActorFrom(c), req.Email, req.Password, req.Name, req.RoleID)
	if err != nil {
		return adminError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		RoleID:    user.RoleID,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	})
}

// UpdateUserRole maneja PUT /api/admin/users/:id/role.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	userID := c.Params("id")
	var req dto.UpdateUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	if err := h.users.ReassignRole(c.Context(), ActorFrom(c), userID, req.RoleID); err != nil {
		return adminError(c, err)
	}
	return c.JSON(fiber.Map{"message": "rol actualizado"})
}

// ListRoles maneja GET /api/admin/roles.
func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.registry.ListRoles(c.Context())
	if err != nil {
		return adminError(c, err)
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.RoleResponse{ID: r.ID, Name: r.Name, DisplayName: r.DisplayName})
	}
	return c.JSON(fiber.Map{"roles": out})
}

// CreateRole maneja POST /api/admin/roles.
func (h *AdminHandler) CreateRole(c *fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	role, err := h.registry.CreateRole(c.Context(), ActorFrom(c), req.Name, req.DisplayName)
	if err != nil {
		return adminError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RoleResponse{ID: role.ID, Name: role.Name, DisplayName: role.DisplayName})
}

// ListPermissions maneja GET /api/admin/permissions.
func (h *AdminHandler) ListPermissions(c *fiber.Ctx) error {
	permissions, err := h.registry.ListPermissions(c.Context())
	if err != nil {
		return adminError(c, err)
	}
	out := make([]dto.PermissionResponse, 0, len(permissions))
	for _, p := range permissions {
		out = append(out, dto.PermissionResponse{ID: p.ID, Name: p.Name, Category: p.Category})
	}
	return c.JSON(fiber.Map{"permissions": out})
}

// GrantPermission maneja POST /api/admin/roles/:id/permissions.
func (h *AdminHandler) GrantPermission(c *fiber.Ctx) error {
	roleID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "id de rol inválido"})
	}
	var req dto.GrantPermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	if err := h.registry.GrantPermission(c.Context(), ActorFrom(c), roleID, req.PermissionID); err != nil {
		return adminError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "permiso otorgado"})
}

// RevokePermission maneja DELETE /api/admin/roles/:id/permissions/:permissionId.
func (h *AdminHandler) RevokePermission(c *fiber.Ctx) error {
	roleID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "id de rol inválido"})
	}
	permissionID, err := strconv.ParseInt(c.Params("permissionId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAM", Message: "id de permiso inválido"})
	}

	if err := h.registry.RevokePermission(c.Context(), ActorFrom(c), roleID, permissionID); err != nil {
		return adminError(c, err)
	}
	return c.JSON(fiber.Map{"message": "permiso revocado"})
}

func adminError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
