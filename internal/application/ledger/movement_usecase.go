package ledger

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-api/internal/application/access"
	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// MovementUseCase ejecuta las operaciones de negocio que mueven stock. Cada
// operación crea atómicamente su registro fuente más los eventos del ledger
// (misma transacción, lock consultivo por clave) y, tras el commit, registra
// exactamente una entrada de auditoría.
type MovementUseCase struct {
	txRunner TxRunner
	recorder *audit.Recorder
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, recorder *audit.Recorder) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, recorder: recorder}
}

// OpeningInput carga de saldo inicial de una clave (barcode, bodega).
type OpeningInput struct {
	Actor         audit.Actor
	Barcode       string
	WarehouseCode string
	Quantity      int64
}

// DispatchInput despacho a cliente.
type DispatchInput struct {
	Actor         audit.Actor
	Barcode       string
	WarehouseCode string
	CustomerName  string
	AWB           string
	Quantity      int64
	CODAmount     decimal.Decimal
}

// ReturnInput devolución de un despacho.
type ReturnInput struct {
	Actor         audit.Actor
	Barcode       string
	WarehouseCode string
	CustomerName  string
	AWB           string
	Quantity      int64
	Reason        string
}

// DamageInput baja por avería.
type DamageInput struct {
	Actor         audit.Actor
	Barcode       string
	WarehouseCode string
	Quantity      int64
	Reason        string
}

// RecoveryInput recuperación de unidades averiadas.
type RecoveryInput struct {
	Actor         audit.Actor
	Barcode       string
	WarehouseCode string
	Quantity      int64
	DamageID      *int64
}

// SelfTransferInput traslado entre bodegas propias.
type SelfTransferInput struct {
	Actor         audit.Actor
	Barcode       string
	FromWarehouse string
	ToWarehouse   string
	Quantity      int64
}

// Opening registra el saldo inicial de una clave como evento IN sin registro
// fuente (referencia vacía).
func (uc *MovementUseCase) Opening(ctx context.Context, in OpeningInput) error {
	if in.Barcode == "" || in.WarehouseCode == "" || in.Quantity <= 0 {
		return domain.ErrInvalidMovement
	}
	now := time.Now()
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementEventRepository, _ repository.SourceRecordRepository) error {
		return appendEvent(ctx, movRepo, &entity.MovementEvent{
			Barcode:       in.Barcode,
			WarehouseCode: in.WarehouseCode,
			Type:          entity.MovementTypeOPENING,
			Direction:     entity.DirectionFor(entity.MovementTypeOPENING),
			Quantity:      in.Quantity,
			EventTime:     now,
			CreatedAt:     now,
			CreatedBy:     in.Actor.UserID,
		})
	})
	if err != nil {
		return err
	}
	uc.recorder.Record(ctx, in.Actor, access.PermOpeningCreate, "opening", in.Barcode, map[string]any{
		"barcode":   in.Barcode,
		"warehouse": in.WarehouseCode,
		"quantity":  in.Quantity,
	})
	return nil
}

// Dispatch crea el despacho y su evento OUT. Devuelve el id del despacho.
func (uc *MovementUseCase) Dispatch(ctx context.Context, in DispatchInput) (int64, error) {
	if in.Barcode == "" || in.WarehouseCode == "" || in.Quantity <= 0 {
		return 0, domain.ErrInvalidMovement
	}
	if in.CODAmount.IsNegative() {
		return 0, domain.ErrInvalidMovement
	}
	now := time.Now()
	d := entity.Dispatch{
		Barcode:       in.Barcode,
		WarehouseCode: in.WarehouseCode,
		CustomerName:  in.CustomerName,
		AWB:           in.AWB,
		Quantity:      in.Quantity,
		CODAmount:     in.CODAmount,
		CreatedAt:     now,
		CreatedBy:     in.Actor.UserID,
	}
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementEventRepository, srcRepo repository.SourceRecordRepository) error {
		if err := srcRepo.CreateDispatch(ctx, &d); err != nil {
			return err
		}
		return appendEvent(ctx, movRepo, &entity.MovementEvent{
			Barcode:       in.Barcode,
			WarehouseCode: in.WarehouseCode,
			Type:          entity.MovementTypeDISPATCH,
			Direction:     entity.DirectionFor(entity.MovementTypeDISPATCH),
			Quantity:      in.Quantity,
			Reference:     entity.Reference{Type: entity.SourceTypeDISPATCH, SourceID: d.ID},
			EventTime:     now,
			CreatedAt:     now,
			CreatedBy:     in.Actor.UserID,
		})
	})
	if err != nil {
		return 0, err
	}
	uc.recorder.Record(ctx, in.Actor, access.PermDispatchCreate, "dispatch", strconv.FormatInt(d.ID, 10), map[string]any{
		"barcode":   in.Barcode,
		"warehouse": in.WarehouseCode,
		"quantity":  in.Quantity,
		"awb":       in.AWB,
		"customer":  in.CustomerName,
	})
	return d.ID, nil
}

// Return crea la devolución y su evento IN. Devuelve el id de la devolución.
func (uc *MovementUseCase) Return(ctx context.Context, in ReturnInput) (int64, error) {
	if in.Barcode == "" || in.WarehouseCode == "" || in.Quantity <= 0 {
		return 0, domain.ErrInvalidMovement
	}
	now := time.Now()
	r := entity.Return{
		Barcode:       in.Barcode,
		WarehouseCode: in.WarehouseCode,
		CustomerName:  in.CustomerName,
		AWB:           in.AWB,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		CreatedAt:     now,
		CreatedBy:     in.Actor.UserID,
	}
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementEventRepository, srcRepo repository.SourceRecordRepository) error {
		if err := srcRepo.CreateReturn(ctx, &r); err != nil {
			return err
		}
		return appendEvent(ctx, movRepo, &entity.MovementEvent{
			Barcode:       in.Barcode,
			WarehouseCode: in.WarehouseCode,
			Type:          entity.MovementTypeRETURN,
			Direction:     entity.DirectionFor(entity.MovementTypeRETURN),
			Quantity:      in.Quantity,
			Reference:     entity.Reference{Type: entity.SourceTypeRETURN, SourceID: r.ID},
			EventTime:     now,
			CreatedAt:     now,
			CreatedBy:     in.Actor.UserID,
		})
	})
	if err != nil {
		return 0, err
	}
	uc.recorder.Record(ctx, in.Actor, access.PermReturnsCreate, "return", strconv.FormatInt(r.ID, 10), map[string]any{
		"barcode":   in.Barcode,
		"warehouse": in.WarehouseCode,
		"quantity":  in.Quantity,
		"awb":       in.AWB,
	})
	return r.ID, nil
}

// Damage crea la avería y su evento OUT. Devuelve el id de la avería.
func (uc *MovementUseCase) Damage(ctx context.Context, in DamageInput) (int64, error) {
	if in.Barcode == "" || in.WarehouseCode == "" || in.Quantity <= 0 {
		return 0, domain.ErrInvalidMovement
	}
	now := time.Now()
	d := entity.Damage{
		Barcode:       in.Barcode,
		WarehouseCode: in.WarehouseCode,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		CreatedAt:     now,
		CreatedBy:     in.Actor.UserID,
	}
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementEventRepository, srcRepo repository.SourceRecordRepository) error {
		if err := srcRepo.CreateDamage(ctx, &d); err != nil {
			return err
		}
		return appendEvent(ctx, movRepo, &entity.MovementEvent{
			Barcode:       in.Barcode,
			WarehouseCode: in.WarehouseCode,
			Type:          entity.MovementTypeDAMAGE,
			Direction:     entity.DirectionFor(entity.MovementTypeDAMAGE),
			Quantity:      in.Quantity,
			Reference:     entity.Reference{Type: entity.SourceTypeDAMAGE, SourceID: d.ID},
			EventTime:     now,
			CreatedAt:     now,
			CreatedBy:     in.Actor.UserID,
		})
	})
	if err != nil {
		return 0, err
	}
	uc.recorder.Record(ctx, in.Actor, access.PermDamageCreate, "damage", strconv.FormatInt(d.ID, 10), map[string]any{
		"barcode":   in.Barcode,
		"warehouse": in.WarehouseCode,
		"quantity":  in.Quantity,
		"reason":    in.Reason,
	})
	return d.ID, nil
}

// Recover crea la recuperación y su evento IN. Devuelve el id de la recuperación.
func (uc *MovementUseCase) Recover(ctx context.Context, in RecoveryInput) (int64, error) {
	if in.Barcode == "" || in.WarehouseCode == "" || in.Quantity <= 0 {
		return 0, domain.ErrInvalidMovement
	}
	now := time.Now()
	r := entity.Recovery{
		Barcode:       in.Barcode,
		WarehouseCode: in.WarehouseCode,
		Quantity:      in.Quantity,
		DamageID:      in.DamageID,
		CreatedAt:     now,
		CreatedBy:     in.Actor.UserID,
	}
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementEventRepository, srcRepo repository.SourceRecordRepository) error {
		if err := srcRepo.CreateRecovery(ctx, &r); err != nil {
			return err
		}
		return appendEvent(ctx, movRepo, &entity.MovementEvent{
			Barcode:       in.Barcode,
			WarehouseCode: in.WarehouseCode,
			Type:          entity.MovementTypeRECOVER,
			Direction:     entity.DirectionFor(entity.MovementTypeRECOVER),
			Quantity:      in.Quantity,
			Reference:     entity.Reference{Type: entity.SourceTypeRECOVERY, SourceID: r.ID},
			EventTime:     now,
			CreatedAt:     now,
			CreatedBy:     in.Actor.UserID,
		})
	})
	if err != nil {
		return 0, err
	}
	uc.recorder.Record(ctx, in.Actor, access.PermRecoveryCreate, "recovery", strconv.FormatInt(r.ID, 10), map[string]any{
		"barcode":   in.Barcode,
		"warehouse": in.WarehouseCode,
		"quantity":  in.Quantity,
	})
	return r.ID, nil
}

// SelfTransfer crea el traslado y sus dos eventos (OUT en origen, IN en
// destino) bajo el mismo CorrelationID, todo en una transacción: o quedan
// exactamente dos eventos correlacionados o no queda ninguno.
func (uc *MovementUseCase) SelfTransfer(ctx context.Context, in SelfTransferInput) (int64, error) {
	if in.Barcode == "" || in.FromWarehouse == "" || in.ToWarehouse == "" || in.Quantity <= 0 {
		return 0, domain.ErrInvalidMovement
	}
	if in.FromWarehouse == in.ToWarehouse {
		return 0, domain.ErrInvalidMovement
	}
	now := time.Now()
	correlationID := uuid.New().String()
	t := entity.SelfTransfer{
		Barcode:       in.Barcode,
		FromWarehouse: in.FromWarehouse,
		ToWarehouse:   in.ToWarehouse,
		Quantity:      in.Quantity,
		CreatedAt:     now,
		CreatedBy:     in.Actor.UserID,
	}
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementEventRepository, srcRepo repository.SourceRecordRepository) error {
		if err := srcRepo.CreateSelfTransfer(ctx, &t); err != nil {
			return err
		}
		// Lock de ambas claves en orden global determinista para que dos
		// traslados cruzados concurrentes no se bloqueen mutuamente.
		keys := []string{in.FromWarehouse, in.ToWarehouse}
		sort.Strings(keys)
		for _, wh := range keys {
			if err := movRepo.LockKey(ctx, in.Barcode, wh); err != nil {
				return err
			}
		}
		ref := entity.Reference{Type: entity.SourceTypeSELFTRANSFER, SourceID: t.ID}
		if err := appendEvent(ctx, movRepo, &entity.MovementEvent{
			Barcode:       in.Barcode,
			WarehouseCode: in.FromWarehouse,
			Type:          entity.MovementTypeSELFTRANSFER,
			Direction:     entity.DirectionOUT,
			Quantity:      in.Quantity,
			Reference:     ref,
			CorrelationID: correlationID,
			EventTime:     now,
			CreatedAt:     now,
			CreatedBy:     in.Actor.UserID,
		}); err != nil {
			return err
		}
		return appendEvent(ctx, movRepo, &entity.MovementEvent{
			Barcode:       in.Barcode,
			WarehouseCode: in.ToWarehouse,
			Type:          entity.MovementTypeSELFTRANSFER,
			Direction:     entity.DirectionIN,
			Quantity:      in.Quantity,
			Reference:     ref,
			CorrelationID: correlationID,
			EventTime:     now,
			CreatedAt:     now,
			CreatedBy:     in.Actor.UserID,
		})
	})
	if err != nil {
		return 0, err
	}
	uc.recorder.Record(ctx, in.Actor, access.PermTransfersCreate, "self_transfer", strconv.FormatInt(t.ID, 10), map[string]any{
		"barcode":        in.Barcode,
		"from_warehouse": in.FromWarehouse,
		"to_warehouse":   in.ToWarehouse,
		"quantity":       in.Quantity,
	})
	return t.ID, nil
}

// appendEvent valida el evento, serializa la clave con el lock consultivo y
// para eventos OUT verifica que el saldo derivado no quede negativo antes de
// insertar. Todo dentro de la transacción del caller: en fallo no persiste nada.
func appendEvent(ctx context.Context, movRepo repository.MovementEventRepository, e *entity.MovementEvent) error {
	if !entity.ValidMovementType(e.Type) || e.Quantity <= 0 {
		return domain.ErrInvalidMovement
	}
	if e.Direction != entity.DirectionIN && e.Direction != entity.DirectionOUT {
		return domain.ErrInvalidMovement
	}
	if err := movRepo.LockKey(ctx, e.Barcode, e.WarehouseCode); err != nil {
		return err
	}
	if e.Direction == entity.DirectionOUT {
		balance, err := movRepo.SumByKey(ctx, e.Barcode, e.WarehouseCode)
		if err != nil {
			return err
		}
		if balance < e.Quantity {
			return domain.ErrInsufficientStock
		}
	}
	return movRepo.Create(ctx, e)
}
