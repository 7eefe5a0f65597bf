package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.RBACRepository = (*RBACRepo)(nil)

// RBACRepo implementación del registro de roles y permisos sobre PostgreSQL.
type RBACRepo struct {
	q Querier
}

// NewRBACRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRBACRepository(q Querier) *RBACRepo {
	return &RBACRepo{q: q}
}

// HasPermission responde si la junción une el rol con un permiso activo de ese
// nombre. Rol inexistente responde false, nunca error (fail-closed).
func (r *RBACRepo) HasPermission(ctx context.Context, roleID int64, permissionName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM role_permissions rp
			JOIN permissions p ON p.id = rp.permission_id
			WHERE rp.role_id = $1 AND p.name = $2 AND p.active
		)`
	var ok bool
	if err := r.q.QueryRow(ctx, query, roleID, permissionName).Scan(&ok); err != nil {
		return false, fmt.Errorf("has permission: %w", err)
	}
	return ok, nil
}

// ListPermissions devuelve el catálogo ordenado por categoría y nombre.
func (r *RBACRepo) ListPermissions(ctx context.Context) ([]*entity.Permission, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, category, active FROM permissions ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Permission
	for rows.Next() {
		var p entity.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Active); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// GetPermission obtiene un permiso por id.
func (r *RBACRepo) GetPermission(ctx context.Context, id int64) (*entity.Permission, error) {
	var p entity.Permission
	err := r.q.QueryRow(ctx,
		`SELECT id, name, category, active FROM permissions WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Category, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return &p, nil
}

// ListRoles devuelve los roles del registro.
func (r *RBACRepo) ListRoles(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, name, display_name, created_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.DisplayName, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, &role)
	}
	return list, rows.Err()
}

// GetRole obtiene un rol por id.
func (r *RBACRepo) GetRole(ctx context.Context, id int64) (*entity.Role, error) {
	var role entity.Role
	err := r.q.QueryRow(ctx,
		`SELECT id, name, display_name, created_at FROM roles WHERE id = $1`, id,
	).Scan(&role.ID, &role.Name, &role.DisplayName, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

// CreateRole inserta un rol y asigna el ID autogenerado.
func (r *RBACRepo) CreateRole(ctx context.Context, role *entity.Role) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO roles (name, display_name, created_at) VALUES ($1, $2, $3) RETURNING id`,
		role.Name, role.DisplayName, role.CreatedAt,
	).Scan(&role.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// Grant crea la junción rol→permiso (única por par).
func (r *RBACRepo) Grant(ctx context.Context, rp entity.RolePermission) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`,
		rp.RoleID, rp.PermissionID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

// Revoke elimina la junción rol→permiso.
func (r *RBACRepo) Revoke(ctx context.Context, rp entity.RolePermission) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`,
		rp.RoleID, rp.PermissionID,
	)
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
