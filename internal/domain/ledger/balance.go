// Package ledger contiene los cálculos puros sobre eventos del ledger de
// movimientos (sin dependencias de infraestructura).
package ledger

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// ComputeBalance pliega los eventos de una clave (barcode, bodega):
// suma IN, resta OUT. El resultado de recomputar la historia completa debe
// coincidir siempre con el mantenimiento incremental.
func ComputeBalance(events []*entity.MovementEvent) int64 {
	var total int64
	for _, e := range events {
		total += e.SignedQuantity()
	}
	return total
}

// BalanceAsOf restringe el pliegue a eventos con EventTime <= t.
func BalanceAsOf(events []*entity.MovementEvent, t time.Time) int64 {
	var total int64
	for _, e := range events {
		if e.EventTime.After(t) {
			continue
		}
		total += e.SignedQuantity()
	}
	return total
}
