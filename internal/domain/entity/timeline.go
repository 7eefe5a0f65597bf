package entity

import "time"

// TimelineEntry es una línea legible de la historia de un producto u orden:
// el evento del ledger más los campos de presentación del registro fuente.
// Detail es nil cuando la referencia no pudo resolverse; el evento se muestra
// igual con detalle degradado (la completitud del ledger manda).
type TimelineEntry struct {
	EventID       string
	Barcode       string
	WarehouseCode string
	Type          string
	Direction     string
	Quantity      int64
	Reference     string
	EventTime     time.Time
	Detail        *SourceDetail
	Description   string
}
