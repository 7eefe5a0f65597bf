package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// TimelineUseCase reconstruye la historia legible de un producto o de una
// orden uniendo los eventos del ledger con sus registros fuente. Si una
// referencia no resuelve, el evento sale igual con detalle degradado: la
// completitud del ledger pesa más que la riqueza de presentación.
type TimelineUseCase struct {
	movRepo repository.MovementEventRepository
	srcRepo repository.SourceRecordRepository
}

// NewTimelineUseCase construye el caso de uso.
func NewTimelineUseCase(movRepo repository.MovementEventRepository, srcRepo repository.SourceRecordRepository) *TimelineUseCase {
	return &TimelineUseCase{movRepo: movRepo, srcRepo: srcRepo}
}

// BuildTimeline arma la línea de tiempo de un barcode, descendente por
// event_time. warehouseCode vacío significa "todas las bodegas" (semántica
// canónica y documentada, nunca una bodega indefinida).
func (uc *TimelineUseCase) BuildTimeline(ctx context.Context, barcode, warehouseCode string) ([]*entity.TimelineEntry, error) {
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		events []*entity.MovementEvent
		err    error
	)
	if warehouseCode == "" {
		events, err = uc.movRepo.ListByBarcode(ctx, barcode)
	} else {
		events, err = uc.movRepo.ListByKey(ctx, barcode, warehouseCode, nil)
	}
	if err != nil {
		return nil, err
	}
	return uc.render(ctx, events), nil
}

// BuildOrderTimeline arma la línea de tiempo de un único registro fuente.
// domain.ErrNotFound si la referencia no resuelve a nada.
func (uc *TimelineUseCase) BuildOrderTimeline(ctx context.Context, ref entity.Reference) ([]*entity.TimelineEntry, error) {
	if ref.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	events, err := uc.movRepo.ListByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		// Sin eventos el registro puede existir igual; solo 404 si tampoco
		// resuelve el registro fuente.
		if _, err := uc.srcRepo.ResolveDetail(ctx, ref); err != nil {
			return nil, domain.ErrNotFound
		}
	}
	return uc.render(ctx, events), nil
}

// render ordena descendente y resuelve los registros fuente (una consulta por
// referencia distinta dentro de la llamada).
func (uc *TimelineUseCase) render(ctx context.Context, events []*entity.MovementEvent) []*entity.TimelineEntry {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventTime.After(events[j].EventTime)
	})

	resolved := make(map[string]*entity.SourceDetail)
	entries := make([]*entity.TimelineEntry, 0, len(events))
	for _, e := range events {
		var detail *entity.SourceDetail
		if !e.Reference.IsZero() {
			key := e.Reference.Format()
			if d, ok := resolved[key]; ok {
				detail = d
			} else {
				d, err := uc.srcRepo.ResolveDetail(ctx, e.Reference)
				if err == nil {
					detail = d
				} else if !errors.Is(err, domain.ErrNotFound) {
					// Fallo de infraestructura: degradar igual que referencia rota.
					detail = nil
				}
				resolved[key] = detail
			}
		}
		entries = append(entries, &entity.TimelineEntry{
			EventID:       e.ID,
			Barcode:       e.Barcode,
			WarehouseCode: e.WarehouseCode,
			Type:          e.Type,
			Direction:     e.Direction,
			Quantity:      e.Quantity,
			Reference:     e.Reference.Format(),
			EventTime:     e.EventTime,
			Detail:        detail,
			Description:   describe(e, detail),
		})
	}
	return entries
}

// describe arma la línea legible del evento; con detalle degradado cuando el
// registro fuente no está disponible.
func describe(e *entity.MovementEvent, detail *entity.SourceDetail) string {
	switch e.Type {
	case entity.MovementTypeOPENING:
		return fmt.Sprintf("Saldo inicial de %d und en %s", e.Quantity, e.WarehouseCode)
	case entity.MovementTypeDISPATCH:
		if detail != nil {
			return fmt.Sprintf("Despacho de %d und a %s (guía %s) desde %s", e.Quantity, detail.CustomerName, detail.AWB, e.WarehouseCode)
		}
	case entity.MovementTypeRETURN:
		if detail != nil {
			return fmt.Sprintf("Devolución de %d und de %s (guía %s) en %s", e.Quantity, detail.CustomerName, detail.AWB, e.WarehouseCode)
		}
	case entity.MovementTypeDAMAGE:
		if detail != nil && detail.Reason != "" {
			return fmt.Sprintf("Baja por avería de %d und en %s: %s", e.Quantity, e.WarehouseCode, detail.Reason)
		}
		return fmt.Sprintf("Baja por avería de %d und en %s", e.Quantity, e.WarehouseCode)
	case entity.MovementTypeRECOVER:
		return fmt.Sprintf("Recuperación de %d und en %s", e.Quantity, e.WarehouseCode)
	case entity.MovementTypeSELFTRANSFER:
		if detail != nil {
			if e.Direction == entity.DirectionOUT {
				return fmt.Sprintf("Traslado de %d und hacia %s", e.Quantity, detail.ToWarehouse)
			}
			return fmt.Sprintf("Traslado de %d und desde %s", e.Quantity, detail.WarehouseCode)
		}
	}
	// Referencia sin resolver: el evento se muestra igual.
	if e.Reference.IsZero() {
		return fmt.Sprintf("%s %s %d und en %s", e.Type, e.Direction, e.Quantity, e.WarehouseCode)
	}
	return fmt.Sprintf("%s %s %d und en %s (fuente %s no disponible)", e.Type, e.Direction, e.Quantity, e.WarehouseCode, e.Reference.Format())
}
