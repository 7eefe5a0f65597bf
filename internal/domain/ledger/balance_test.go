package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/ledger"
)

func event(typ, dir string, qty int64, at time.Time) *entity.MovementEvent {
	return &entity.MovementEvent{
		Barcode:       "PRD-001",
		WarehouseCode: "BOG",
		Type:          typ,
		Direction:     dir,
		Quantity:      qty,
		EventTime:     at,
	}
}

// Caso del manual de bodega: saldo inicial 100, despacho de 30 deja 70.
func TestComputeBalance_AperturasYDespachos(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	events := []*entity.MovementEvent{
		event(entity.MovementTypeOPENING, entity.DirectionIN, 100, base),
		event(entity.MovementTypeDISPATCH, entity.DirectionOUT, 30, base.Add(time.Hour)),
	}
	assert.Equal(t, int64(70), ledger.ComputeBalance(events))
}

func TestComputeBalance_Vacio(t *testing.T) {
	assert.Equal(t, int64(0), ledger.ComputeBalance(nil))
}

// El recálculo completo debe coincidir con mantener el saldo plegando evento
// a evento: misma historia, mismo resultado por cualquiera de los dos caminos.
func TestComputeBalance_CoincideConPliegueIncremental(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	events := []*entity.MovementEvent{
		event(entity.MovementTypeOPENING, entity.DirectionIN, 50, base),
		event(entity.MovementTypeDISPATCH, entity.DirectionOUT, 20, base.Add(1*time.Hour)),
		event(entity.MovementTypeRETURN, entity.DirectionIN, 5, base.Add(2*time.Hour)),
		event(entity.MovementTypeDAMAGE, entity.DirectionOUT, 3, base.Add(3*time.Hour)),
		event(entity.MovementTypeRECOVER, entity.DirectionIN, 2, base.Add(4*time.Hour)),
	}

	var incremental int64
	for _, e := range events {
		incremental += e.SignedQuantity()
	}

	assert.Equal(t, incremental, ledger.ComputeBalance(events))
	assert.Equal(t, int64(34), incremental)
}

func TestBalanceAsOf_CortaPorEventTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	events := []*entity.MovementEvent{
		event(entity.MovementTypeOPENING, entity.DirectionIN, 100, base),
		event(entity.MovementTypeDISPATCH, entity.DirectionOUT, 30, base.Add(2*time.Hour)),
		event(entity.MovementTypeRETURN, entity.DirectionIN, 10, base.Add(4*time.Hour)),
	}

	assert.Equal(t, int64(0), ledger.BalanceAsOf(events, base.Add(-time.Minute)),
		"antes del primer evento el saldo es cero")
	assert.Equal(t, int64(100), ledger.BalanceAsOf(events, base.Add(time.Hour)))
	assert.Equal(t, int64(70), ledger.BalanceAsOf(events, base.Add(3*time.Hour)))
	assert.Equal(t, int64(80), ledger.BalanceAsOf(events, base.Add(5*time.Hour)))
}

// El corte es inclusivo: un evento exactamente en t cuenta.
func TestBalanceAsOf_CorteInclusivo(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	events := []*entity.MovementEvent{
		event(entity.MovementTypeOPENING, entity.DirectionIN, 40, base),
	}
	assert.Equal(t, int64(40), ledger.BalanceAsOf(events, base))
}
