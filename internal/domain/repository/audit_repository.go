package repository

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// AuditFilter filtros de consulta sobre registros de auditoría.
type AuditFilter struct {
	Resource string // filtra por recurso exacto ("" = todos)
	Search   string // búsqueda en action, resource_id y user_id ("" = sin búsqueda)
}

// AuditRepository define el puerto de persistencia de auditoría. Las entradas
// son inmutables salvo UpdateLocation (enriquecimiento posterior).
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error

	// UpdateLocation completa la geolocalización de una entrada ya escrita.
	UpdateLocation(ctx context.Context, entryID string, loc *entity.Location) error

	// List devuelve una página descendente por created_at y el total de filas
	// que matchean el filtro.
	List(ctx context.Context, filter AuditFilter, limit, offset int) ([]*entity.AuditEntry, int, error)

	// ListAll devuelve, sin paginar, exactamente el mismo conjunto que List
	// acumulando todas sus páginas (contrato de paridad del export).
	ListAll(ctx context.Context, filter AuditFilter) ([]*entity.AuditEntry, error)
}
