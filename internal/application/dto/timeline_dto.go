package dto

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// TimelineEntryResponse una línea de la historia de un producto u orden.
type TimelineEntryResponse struct {
	EventID       string                `json:"event_id"`
	Barcode       string                `json:"barcode"`
	WarehouseCode string                `json:"warehouse_code"`
	Type          string                `json:"type"`
	Direction     string                `json:"direction"`
	Quantity      int64                 `json:"quantity"`
	Reference     string                `json:"reference,omitempty"`
	EventTime     time.Time             `json:"event_time"`
	Description   string                `json:"description"`
	Detail        *SourceDetailResponse `json:"detail,omitempty"`
}

// SourceDetailResponse campos de presentación del registro fuente.
type SourceDetailResponse struct {
	CustomerName  string `json:"customer_name,omitempty"`
	AWB           string `json:"awb,omitempty"`
	WarehouseCode string `json:"warehouse_code,omitempty"`
	ToWarehouse   string `json:"to_warehouse,omitempty"`
	Quantity      int64  `json:"quantity,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// TimelineResponse respuesta de GET /api/timeline/:barcode.
// Warehouse es "ALL" cuando se agregó a través de todas las bodegas: el
// agregado se rinde explícito, nunca como valor indefinido.
type TimelineResponse struct {
	Barcode   string                   `json:"barcode"`
	Warehouse string                   `json:"warehouse"`
	Total     int                      `json:"total"`
	Entries   []*TimelineEntryResponse `json:"entries"`
}

// FromTimelineEntries mapea las entradas de dominio a la respuesta HTTP.
func FromTimelineEntries(entries []*entity.TimelineEntry) []*TimelineEntryResponse {
	out := make([]*TimelineEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := &TimelineEntryResponse{
			EventID:       e.EventID,
			Barcode:       e.Barcode,
			WarehouseCode: e.WarehouseCode,
			Type:          e.Type,
			Direction:     e.Direction,
			Quantity:      e.Quantity,
			Reference:     e.Reference,
			EventTime:     e.EventTime,
			Description:   e.Description,
		}
		if e.Detail != nil {
			resp.Detail = &SourceDetailResponse{
				CustomerName:  e.Detail.CustomerName,
				AWB:           e.Detail.AWB,
				WarehouseCode: e.Detail.WarehouseCode,
				ToWarehouse:   e.Detail.ToWarehouse,
				Quantity:      e.Detail.Quantity,
				Reason:        e.Detail.Reason,
			}
		}
		out = append(out, resp)
	}
	return out
}
