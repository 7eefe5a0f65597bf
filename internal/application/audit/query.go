package audit

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// QueryService lectura filtrable y paginada de registros de auditoría.
// El acceso está protegido por el gate (permiso audit.view) en el router.
type QueryService struct {
	repo repository.AuditRepository
}

// NewQueryService construye el servicio de consulta.
func NewQueryService(repo repository.AuditRepository) *QueryService {
	return &QueryService{repo: repo}
}

// List devuelve una página (descendente por created_at) y el total del filtro.
// page es 1-based.
func (s *QueryService) List(ctx context.Context, filter repository.AuditFilter, limit, page int) ([]*entity.AuditEntry, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit
	return s.repo.List(ctx, filter, limit, offset)
}

// Export devuelve sin paginar el mismo conjunto que List con el mismo filtro.
// La paridad de conteo entre ambos es contrato vinculante del endpoint export.
func (s *QueryService) Export(ctx context.Context, filter repository.AuditFilter) ([]*entity.AuditEntry, error) {
	return s.repo.ListAll(ctx, filter)
}
