package repository

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// RBACRepository define el puerto del registro de roles y permisos.
type RBACRepository interface {
	// HasPermission responde si el rol tiene concedido un permiso activo con
	// ese nombre. Rol inexistente o sin permisos responde false (fail-closed).
	HasPermission(ctx context.Context, roleID int64, permissionName string) (bool, error)

	ListPermissions(ctx context.Context) ([]*entity.Permission, error)
	GetPermission(ctx context.Context, id int64) (*entity.Permission, error)

	ListRoles(ctx context.Context) ([]*entity.Role, error)
	GetRole(ctx context.Context, id int64) (*entity.Role, error)
	CreateRole(ctx context.Context, role *entity.Role) error

	// Grant crea la junción rol→permiso; domain.ErrDuplicate si ya existe.
	Grant(ctx context.Context, rp entity.RolePermission) error
	// Revoke elimina la junción; domain.ErrNotFound si no existe.
	Revoke(ctx context.Context, rp entity.RolePermission) error
}
