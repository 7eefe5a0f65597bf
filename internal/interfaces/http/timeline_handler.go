package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/timeline"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// TimelineHandler reconstruye la historia de un producto o de una orden a
// partir del libro de movimientos.
type TimelineHandler struct {
	uc *timeline.TimelineUseCase
}

// NewTimelineHandler construye el handler.
func NewTimelineHandler(uc *timeline.TimelineUseCase) *TimelineHandler {
	return &TimelineHandler{uc: uc}
}

// ByBarcode maneja GET /api/timeline/:barcode. El query param warehouse
// restringe a una bodega; ausente o "ALL" agrega todas.
func (h *TimelineHandler) ByBarcode(c *fiber.Ctx) error {
	barcode := c.Params("barcode")

	// "ALL" se normaliza en el borde; hacia adentro el agregado es "".
	warehouseCode := c.Query("warehouse")
	if strings.EqualFold(warehouseCode, "ALL") {
		warehouseCode = ""
	}

	entries, err := h.uc.BuildTimeline(c.Context(), barcode, warehouseCode)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "barcode inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}

	warehouse := warehouseCode
	if warehouse == "" {
		warehouse = "ALL"
	}
	return c.JSON(dto.TimelineResponse{
		Barcode:   barcode,
		Warehouse: warehouse,
		Total:     len(entries),
		Entries:   dto.FromTimelineEntries(entries),
	})
}

// ByOrder maneja GET /api/order-tracking/:id/timeline. El id acepta el
// formato de referencia "TYPE:id" o un id numérico pelado, que se asume
// despacho (el caso dominante de rastreo).
func (h *TimelineHandler) ByOrder(c *fiber.Ctx) error {
	raw := c.Params("id")

	ref, err := parseOrderRef(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REFERENCE", Message: "referencia de orden inválida"})
	}

	entries, err := h.uc.BuildOrderTimeline(c.Context(), ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ORDER_NOT_FOUND", Message: "la orden no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}

	return c.JSON(dto.TimelineResponse{
		Barcode:   barcodeOf(entries),
		Warehouse: "ALL",
		Total:     len(entries),
		Entries:   dto.FromTimelineEntries(entries),
	})
}

func parseOrderRef(raw string) (entity.Reference, error) {
	if raw == "" {
		return entity.Reference{}, domain.ErrInvalidInput
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		return entity.Reference{Type: entity.SourceTypeDISPATCH, SourceID: id}, nil
	}
	ref, err := entity.ParseReference(raw)
	if err != nil || ref.IsZero() {
		return entity.Reference{}, domain.ErrInvalidInput
	}
	return ref, nil
}

func barcodeOf(entries []*entity.TimelineEntry) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Barcode
}
