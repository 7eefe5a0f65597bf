package access

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// Permisos canónicos de la aplicación (punto-nombrados). Toda ruta se ata a
// exactamente uno de estos en el router; no hay chequeos de permiso sueltos
// por handler.
const (
	PermOpeningCreate   = "opening.create"
	PermDispatchCreate  = "dispatch.create"
	PermReturnsCreate   = "returns.create"
	PermDamageCreate    = "damage.create"
	PermRecoveryCreate  = "recovery.create"
	PermTransfersCreate = "transfers.create"
	PermTimelineView    = "timeline.view"
	PermAuditView       = "audit.view"
	PermUsersManage     = "users.manage"
	PermRolesManage     = "roles.manage"
)

// Gate es el punto único de autorización: responde si el rol del actor tiene
// concedido un permiso nombrado. Se consulta antes de tocar el ledger o la
// auditoría; en caso de denegación no se produce ningún efecto secundario.
type Gate struct {
	rbacRepo repository.RBACRepository
}

// NewGate construye el gate sobre el registro de roles y permisos.
func NewGate(rbacRepo repository.RBACRepository) *Gate {
	return &Gate{rbacRepo: rbacRepo}
}

// Authorize devuelve nil si el rol tiene el permiso; domain.ErrForbidden si no.
// Un rol sin permisos (o inexistente) deniega siempre (fail-closed).
func (g *Gate) Authorize(ctx context.Context, roleID int64, permissionName string) error {
	ok, err := g.rbacRepo.HasPermission(ctx, roleID, permissionName)
	if err != nil {
		return fmt.Errorf("consultar permiso %s: %w", permissionName, err)
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
