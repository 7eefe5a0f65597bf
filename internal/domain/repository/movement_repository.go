package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// MovementEventRepository define el puerto de persistencia del ledger de
// movimientos. El ledger es append-only: no hay Update ni Delete.
type MovementEventRepository interface {
	Create(ctx context.Context, event *entity.MovementEvent) error

	// ListByKey devuelve los eventos de una clave (barcode, bodega) en orden
	// ascendente por event_time. since opcional para reanudar la lectura.
	ListByKey(ctx context.Context, barcode, warehouseCode string, since *time.Time) ([]*entity.MovementEvent, error)

	// ListByBarcode devuelve los eventos del barcode en todas las bodegas,
	// ascendente por event_time.
	ListByBarcode(ctx context.Context, barcode string) ([]*entity.MovementEvent, error)

	// ListByReference devuelve los eventos originados por un registro fuente.
	ListByReference(ctx context.Context, ref entity.Reference) ([]*entity.MovementEvent, error)

	// SumByKey devuelve sum(IN) - sum(OUT) para la clave.
	SumByKey(ctx context.Context, barcode, warehouseCode string) (int64, error)

	// LockKey serializa los appends de la clave dentro de la transacción en
	// curso (lock consultivo liberado en commit/rollback). Sin transacción no
	// tiene efecto útil.
	LockKey(ctx context.Context, barcode, warehouseCode string) error
}
