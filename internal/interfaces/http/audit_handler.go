package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// AuditHandler expone la consulta y exportación del rastro de auditoría.
// Ambas rutas comparten la misma semántica de filtro: lo que se exporta es
// exactamente lo que se listaría sin paginar.
type AuditHandler struct {
	query *audit.QueryService
}

// NewAuditHandler construye el handler.
func NewAuditHandler(query *audit.QueryService) *AuditHandler {
	return &AuditHandler{query: query}
}

// List maneja GET /api/audit-logs con filtro y paginación.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var req dto.AuditListRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}

	filter := repository.AuditFilter{Resource: req.Resource, Search: req.Search}
	page := req.PageRequest()
	entries, total, err := h.query.List(c.Context(), filter, page.Limit, page.Page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}

	return c.JSON(dto.AuditListResponse{
		PageResponse: dto.PageResponse{Limit: page.Limit, Page: page.Page, Total: total},
		Entries:      dto.FromAuditEntries(entries),
	})
}

// Export maneja GET /api/audit-logs/export: el conjunto completo que el
// filtro seleccione, sin paginación.
func (h *AuditHandler) Export(c *fiber.Ctx) error {
	var req dto.AuditListRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}

	filter := repository.AuditFilter{Resource: req.Resource, Search: req.Search}
	entries, err := h.query.Export(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}

	return c.JSON(fiber.Map{
		"total":   len(entries),
		"entries": dto.FromAuditEntries(entries),
	})
}
