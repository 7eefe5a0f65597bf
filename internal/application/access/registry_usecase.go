package access

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// Acciones de auditoría de la administración del registro.
const (
	ActionRoleCreate       = "role.create"
	ActionPermissionGrant  = "permission.grant"
	ActionPermissionRevoke = "permission.revoke"
)

// RegistryUseCase administra el registro de roles y permisos. Toda mutación
// pasa por el gate en el router (roles.manage) y genera su propia entrada de
// auditoría.
type RegistryUseCase struct {
	rbacRepo repository.RBACRepository
	recorder *audit.Recorder
}

// NewRegistryUseCase construye el caso de uso.
func NewRegistryUseCase(rbacRepo repository.RBACRepository, recorder *audit.Recorder) *RegistryUseCase {
	return &RegistryUseCase{rbacRepo: rbacRepo, recorder: recorder}
}

// ListRoles devuelve los roles del registro.
func (uc *RegistryUseCase) ListRoles(ctx context.Context) ([]*entity.Role, error) {
	return uc.rbacRepo.ListRoles(ctx)
}

// ListPermissions devuelve el catálogo de permisos.
func (uc *RegistryUseCase) ListPermissions(ctx context.Context) ([]*entity.Permission, error) {
	return uc.rbacRepo.ListPermissions(ctx)
}

// CreateRole crea un rol nuevo. Un rol recién creado no concede nada hasta que
// se le otorguen permisos.
func (uc *RegistryUseCase) CreateRole(ctx context.Context, actor audit.Actor, name, displayName string) (*entity.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	role := &entity.Role{Name: name, DisplayName: displayName, CreatedAt: time.Now()}
	if err := uc.rbacRepo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, actor, ActionRoleCreate, "role", strconv.FormatInt(role.ID, 10), map[string]any{
		"name":         role.Name,
		"display_name": role.DisplayName,
	})
	return role, nil
}

// GrantPermission otorga un permiso a un rol (junción única por par).
func (uc *RegistryUseCase) GrantPermission(ctx context.Context, actor audit.Actor, roleID, permissionID int64) error {
	role, err := uc.rbacRepo.GetRole(ctx, roleID)
	if err != nil {
		return err
	}
	perm, err := uc.rbacRepo.GetPermission(ctx, permissionID)
	if err != nil {
		return err
	}
	if err := uc.rbacRepo.Grant(ctx, entity.RolePermission{RoleID: roleID, PermissionID: permissionID}); err != nil {
		return err
	}
	uc.recorder.Record(ctx, actor, ActionPermissionGrant, "role", strconv.FormatInt(roleID, 10), map[string]any{
		"role":       role.Name,
		"permission": perm.Name,
	})
	return nil
}

// RevokePermission retira un permiso de un rol.
func (uc *RegistryUseCase) RevokePermission(ctx context.Context, actor audit.Actor, roleID, permissionID int64) error {
	role, err := uc.rbacRepo.GetRole(ctx, roleID)
	if err != nil {
		return err
	}
	perm, err := uc.rbacRepo.GetPermission(ctx, permissionID)
	if err != nil {
		return err
	}
	if err := uc.rbacRepo.Revoke(ctx, entity.RolePermission{RoleID: roleID, PermissionID: permissionID}); err != nil {
		return err
	}
	uc.recorder.Record(ctx, actor, ActionPermissionRevoke, "role", strconv.FormatInt(roleID, 10), map[string]any{
		"role":       role.Name,
		"permission": perm.Name,
	})
	return nil
}
