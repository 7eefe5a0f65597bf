package access_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/access"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// fakeRBACRepo registra permisos concedidos como pares "roleID/permiso".
type fakeRBACRepo struct {
	granted map[string]bool
	err     error
}

func (r *fakeRBACRepo) HasPermission(_ context.Context, roleID int64, permissionName string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.granted[key(roleID, permissionName)], nil
}

func (r *fakeRBACRepo) ListPermissions(context.Context) ([]*entity.Permission, error) { return nil, nil }
func (r *fakeRBACRepo) GetPermission(context.Context, int64) (*entity.Permission, error) {
	return nil, domain.ErrNotFound
}
func (r *fakeRBACRepo) ListRoles(context.Context) ([]*entity.Role, error) { return nil, nil }
func (r *fakeRBACRepo) GetRole(context.Context, int64) (*entity.Role, error) {
	return nil, domain.ErrNotFound
}
func (r *fakeRBACRepo) CreateRole(context.Context, *entity.Role) error { return nil }
func (r *fakeRBACRepo) Grant(context.Context, entity.RolePermission) error  { return nil }
func (r *fakeRBACRepo) Revoke(context.Context, entity.RolePermission) error { return nil }

func key(roleID int64, perm string) string {
	return strconv.FormatInt(roleID, 10) + "/" + perm
}

func TestGate_PermisoConcedido(t *testing.T) {
	repo := &fakeRBACRepo{granted: map[string]bool{key(1, access.PermDispatchCreate): true}}
	gate := access.NewGate(repo)

	require.NoError(t, gate.Authorize(context.Background(), 1, access.PermDispatchCreate))
}

func TestGate_PermisoNoConcedido(t *testing.T) {
	repo := &fakeRBACRepo{granted: map[string]bool{key(1, access.PermDispatchCreate): true}}
	gate := access.NewGate(repo)

	err := gate.Authorize(context.Background(), 1, access.PermAuditView)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Fail-closed: un rol sin ningún permiso (o inexistente) deniega todo.
func TestGate_RolSinPermisos_DeniegaTodo(t *testing.T) {
	gate := access.NewGate(&fakeRBACRepo{granted: map[string]bool{}})

	for _, perm := range []string{
		access.PermOpeningCreate, access.PermDispatchCreate, access.PermReturnsCreate,
		access.PermDamageCreate, access.PermRecoveryCreate, access.PermTransfersCreate,
		access.PermTimelineView, access.PermAuditView,
		access.PermUsersManage, access.PermRolesManage,
	} {
		assert.ErrorIs(t, gate.Authorize(context.Background(), 99, perm), domain.ErrForbidden,
			"permiso %s debe denegarse para rol sin permisos", perm)
	}
}

// Un fallo de infraestructura no se confunde con denegación: el caller debe
// poder distinguir 403 de 503.
func TestGate_FalloDeInfraestructura_NoEsForbidden(t *testing.T) {
	gate := access.NewGate(&fakeRBACRepo{err: errors.New("conexión caída")})

	err := gate.Authorize(context.Background(), 1, access.PermDispatchCreate)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrForbidden)
}
