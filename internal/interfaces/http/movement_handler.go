package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/domain"
)

// MovementHandler maneja los POST de operaciones de negocio que mueven stock.
// El permiso {dominio}.create ya fue verificado por RequirePermission.
type MovementHandler struct {
	uc *ledger.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *ledger.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Opening registra el saldo inicial de una clave (barcode, bodega).
func (h *MovementHandler) Opening(c *fiber.Ctx) error {
	var in dto.OpeningRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.Opening(c.Context(), ledger.OpeningInput{
		Actor:         ActorFrom(c),
		Barcode:       in.Barcode,
		WarehouseCode: in.WarehouseCode,
		Quantity:      in.Quantity,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "saldo inicial registrado"})
}

// Dispatch crea un despacho con su evento OUT.
func (h *MovementHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.DispatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.Dispatch(c.Context(), ledger.DispatchInput{
		Actor:         ActorFrom(c),
		Barcode:       in.Barcode,
		WarehouseCode: in.WarehouseCode,
		CustomerName:  in.CustomerName,
		AWB:           in.AWB,
		Quantity:      in.Quantity,
		CODAmount:     in.CODAmount,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id, Message: "despacho registrado"})
}

// Return crea una devolución con su evento IN.
func (h *MovementHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.Return(c.Context(), ledger.ReturnInput{
		Actor:         ActorFrom(c),
		Barcode:       in.Barcode,
		WarehouseCode: in.WarehouseCode,
		CustomerName:  in.CustomerName,
		AWB:           in.AWB,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id, Message: "devolución registrada"})
}

// Damage crea una baja por avería con su evento OUT.
func (h *MovementHandler) Damage(c *fiber.Ctx) error {
	var in dto.DamageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.Damage(c.Context(), ledger.DamageInput{
		Actor:         ActorFrom(c),
		Barcode:       in.Barcode,
		WarehouseCode: in.WarehouseCode,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id, Message: "avería registrada"})
}

// Recovery crea una recuperación con su evento IN.
func (h *MovementHandler) Recovery(c *fiber.Ctx) error {
	var in dto.RecoveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.Recover(c.Context(), ledger.RecoveryInput{
		Actor:         ActorFrom(c),
		Barcode:       in.Barcode,
		WarehouseCode: in.WarehouseCode,
		Quantity:      in.Quantity,
		DamageID:      in.DamageID,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id, Message: "recuperación registrada"})
}

// SelfTransfer crea un traslado entre bodegas con sus dos eventos correlacionados.
func (h *MovementHandler) SelfTransfer(c *fiber.Ctx) error {
	var in dto.SelfTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.SelfTransfer(c.Context(), ledger.SelfTransferInput{
		Actor:         ActorFrom(c),
		Barcode:       in.Barcode,
		FromWarehouse: in.FromWarehouse,
		ToWarehouse:   in.ToWarehouse,
		Quantity:      in.Quantity,
	})
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreatedResponse{ID: id, Message: "traslado registrado"})
}

// movementError mapea los errores del ledger a respuestas HTTP estables.
func movementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidMovement), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_MOVEMENT", Message: "movimiento inválido: revise tipo, clave y cantidad"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para la operación"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
