package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dispatch representa un despacho de unidades a un cliente (registro fuente).
type Dispatch struct {
	ID            int64
	Barcode       string
	WarehouseCode string
	CustomerName  string
	AWB           string // guía de transporte
	Quantity      int64
	CODAmount     decimal.Decimal // monto contraentrega
	CreatedAt     time.Time
	CreatedBy     string
}

// Return representa la devolución de un despacho (registro fuente).
type Return struct {
	ID            int64
	Barcode       string
	WarehouseCode string
	CustomerName  string
	AWB           string
	Quantity      int64
	Reason        string
	CreatedAt     time.Time
	CreatedBy     string
}

// Damage representa una baja por avería (registro fuente).
type Damage struct {
	ID            int64
	Barcode       string
	WarehouseCode string
	Quantity      int64
	Reason        string
	CreatedAt     time.Time
	CreatedBy     string
}

// Recovery representa la recuperación de unidades averiadas (registro fuente).
// DamageID referencia la avería de origen cuando se conoce.
type Recovery struct {
	ID            int64
	Barcode       string
	WarehouseCode string
	Quantity      int64
	DamageID      *int64
	CreatedAt     time.Time
	CreatedBy     string
}

// SelfTransfer representa un traslado entre bodegas propias (registro fuente).
// Genera dos eventos en el ledger: OUT en origen e IN en destino.
type SelfTransfer struct {
	ID            int64
	Barcode       string
	FromWarehouse string
	ToWarehouse   string
	Quantity      int64
	CreatedAt     time.Time
	CreatedBy     string
}

// SourceDetail son los campos de presentación de un registro fuente que la
// línea de tiempo muestra al usuario. Cualquier campo puede venir vacío.
type SourceDetail struct {
	CustomerName  string
	AWB           string
	WarehouseCode string
	ToWarehouse   string // solo traslados
	Quantity      int64
	Reason        string
}
