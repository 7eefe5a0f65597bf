package dto

import "time"

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse respuesta del login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse usuario sin campos sensibles.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	RoleID    int64     `json:"role_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserRequest body para POST /api/admin/users.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	RoleID   int64  `json:"role_id"`
}

// UpdateUserRoleRequest body para PUT /api/admin/users/:id/role.
type UpdateUserRoleRequest struct {
	RoleID int64 `json:"role_id"`
}

// CreateRoleRequest body para POST /api/admin/roles.
type CreateRoleRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// GrantPermissionRequest body para POST /api/admin/roles/:id/permissions.
type GrantPermissionRequest struct {
	PermissionID int64 `json:"permission_id"`
}

// RoleResponse rol del registro.
type RoleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// PermissionResponse permiso del catálogo.
type PermissionResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
