package repository

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// SourceRecordRepository define el puerto de persistencia de los registros
// fuente (despachos, devoluciones, averías, recuperaciones, traslados).
// Los Create asignan el ID autogenerado sobre la entidad recibida.
type SourceRecordRepository interface {
	CreateDispatch(ctx context.Context, d *entity.Dispatch) error
	CreateReturn(ctx context.Context, r *entity.Return) error
	CreateDamage(ctx context.Context, d *entity.Damage) error
	CreateRecovery(ctx context.Context, r *entity.Recovery) error
	CreateSelfTransfer(ctx context.Context, t *entity.SelfTransfer) error

	// ResolveDetail busca el registro fuente de la referencia y devuelve sus
	// campos de presentación. domain.ErrNotFound si no resuelve.
	ResolveDetail(ctx context.Context, ref entity.Reference) (*entity.SourceDetail, error)
}
