package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/domain"
)

// StockHandler responde consultas de saldo derivado del libro de movimientos.
type StockHandler struct {
	uc *ledger.BalanceUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.BalanceUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Balance devuelve el saldo actual de la clave (barcode, bodega). Con el query
// param as_of (RFC3339) devuelve el saldo histórico a ese instante.
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	barcode := c.Params("barcode")
	warehouseCode := c.Query("warehouse")
	if warehouseCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "el parámetro warehouse es obligatorio"})
	}

	var (
		balance int64
		asOfRaw string
		err     error
	)
	if asOfRaw = c.Query("as_of"); asOfRaw != "" {
		asOf, parseErr := time.Parse(time.RFC3339, asOfRaw)
		if parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "as_of debe ser una fecha RFC3339"})
		}
		balance, err = h.uc.BalanceAsOf(c.Context(), barcode, warehouseCode, asOf)
	} else {
		balance, err = h.uc.CurrentBalance(c.Context(), barcode, warehouseCode)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "clave de stock inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}

	return c.JSON(dto.BalanceResponse{
		Barcode:       barcode,
		WarehouseCode: warehouseCode,
		Balance:       balance,
		AsOf:          asOfRaw,
	})
}
