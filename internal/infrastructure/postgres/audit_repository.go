package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de auditoría sobre PostgreSQL (usable con pool o tx).
// Inserta y consulta; el único UPDATE permitido es location (enriquecimiento).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste una entrada de auditoría (location queda NULL).
func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, resource, resource_id, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	details := []byte("null")
	if len(e.Details) > 0 {
		details = e.Details
	}
	_, err := r.q.Exec(ctx, query,
		e.ID, e.UserID, e.Action, e.Resource, e.ResourceID, details, e.IPAddress, e.UserAgent, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create audit entry: %w", err)
	}
	return nil
}

// UpdateLocation adjunta la geolocalización a una entrada ya escrita.
func (r *AuditRepo) UpdateLocation(ctx context.Context, entryID string, loc *entity.Location) error {
	b, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}
	_, err = r.q.Exec(ctx, `UPDATE audit_logs SET location = $2 WHERE id = $1`, entryID, b)
	if err != nil {
		return fmt.Errorf("update audit location: %w", err)
	}
	return nil
}

const auditColumns = `id, user_id, action, resource, resource_id, details, ip_address, user_agent, location, created_at`

// List devuelve una página descendente por created_at y el total del filtro.
func (r *AuditRepo) List(ctx context.Context, filter repository.AuditFilter, limit, offset int) ([]*entity.AuditEntry, int, error) {
	where, args := buildAuditWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM audit_logs` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM audit_logs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		auditColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	list, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll devuelve, sin paginar, el mismo conjunto que List con el mismo filtro.
func (r *AuditRepo) ListAll(ctx context.Context, filter repository.AuditFilter) ([]*entity.AuditEntry, error) {
	where, args := buildAuditWhere(filter)
	query := `SELECT ` + auditColumns + ` FROM audit_logs` + where + ` ORDER BY created_at DESC`
	return r.list(ctx, query, args...)
}

// buildAuditWhere arma el WHERE compartido por List y ListAll: el contrato de
// paridad export/listado depende de que los dos usen exactamente este filtro.
func buildAuditWhere(filter repository.AuditFilter) (string, []any) {
	where := ""
	var args []any
	and := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}
	if filter.Resource != "" {
		args = append(args, filter.Resource)
		and(fmt.Sprintf("resource = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		and(fmt.Sprintf("(action ILIKE $%d OR resource_id ILIKE $%d OR user_id::text ILIKE $%d)", n, n, n))
	}
	return where, args
}

func (r *AuditRepo) list(ctx context.Context, query string, args ...any) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var (
			e        entity.AuditEntry
			details  []byte
			location []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Resource, &e.ResourceID,
			&details, &e.IPAddress, &e.UserAgent, &location, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if len(details) > 0 && string(details) != "null" {
			e.Details = details
		}
		if len(location) > 0 && string(location) != "null" {
			var loc entity.Location
			if err := json.Unmarshal(location, &loc); err == nil {
				e.Location = &loc
			}
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
