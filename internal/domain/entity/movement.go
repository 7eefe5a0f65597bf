package entity

import "time"

// Tipos de movimiento del ledger.
const (
	MovementTypeOPENING      = "OPENING"       // saldo inicial
	MovementTypeDISPATCH     = "DISPATCH"      // despacho a cliente
	MovementTypeRETURN       = "RETURN"        // devolución
	MovementTypeDAMAGE       = "DAMAGE"        // avería / baja por daño
	MovementTypeRECOVER      = "RECOVER"       // recuperación de averiado
	MovementTypeSELFTRANSFER = "SELF_TRANSFER" // traslado entre bodegas propias
)

// Dirección de un movimiento.
const (
	DirectionIN  = "IN"
	DirectionOUT = "OUT"
)

// MovementEvent es una entrada inmutable del ledger de movimientos, por
// (barcode, bodega). Las correcciones son eventos compensatorios nuevos,
// nunca ediciones.
type MovementEvent struct {
	ID            string
	Barcode       string
	WarehouseCode string
	Type          string
	Direction     string
	Quantity      int64 // siempre > 0; el signo lo da Direction
	Reference     Reference
	CorrelationID string // agrupa los dos eventos de un SELF_TRANSFER
	EventTime     time.Time
	CreatedAt     time.Time
	CreatedBy     string
}

// ValidMovementType indica si el tipo pertenece al catálogo del ledger.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeOPENING, MovementTypeDISPATCH, MovementTypeRETURN,
		MovementTypeDAMAGE, MovementTypeRECOVER, MovementTypeSELFTRANSFER:
		return true
	}
	return false
}

// DirectionFor devuelve la dirección que corresponde al tipo de movimiento.
// SELF_TRANSFER no tiene dirección única (OUT en origen, IN en destino); para
// ese tipo el caller arma cada pata explícitamente y esta función devuelve "".
func DirectionFor(movementType string) string {
	switch movementType {
	case MovementTypeDISPATCH, MovementTypeDAMAGE:
		return DirectionOUT
	case MovementTypeOPENING, MovementTypeRETURN, MovementTypeRECOVER:
		return DirectionIN
	}
	return ""
}

// SignedQuantity devuelve la cantidad con signo según la dirección.
func (e *MovementEvent) SignedQuantity() int64 {
	if e.Direction == DirectionOUT {
		return -e.Quantity
	}
	return e.Quantity
}
