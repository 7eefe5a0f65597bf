package ledger

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain"
	domledger "github.com/tu-usuario/almacen-api/internal/domain/ledger"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// BalanceUseCase responde consultas de saldo derivado. No escribe nada; opera
// sobre el repositorio atado al pool (fuera de transacción).
type BalanceUseCase struct {
	movRepo repository.MovementEventRepository
}

// NewBalanceUseCase construye el caso de uso de saldos.
func NewBalanceUseCase(movRepo repository.MovementEventRepository) *BalanceUseCase {
	return &BalanceUseCase{movRepo: movRepo}
}

// CurrentBalance devuelve sum(IN) - sum(OUT) de la clave.
func (uc *BalanceUseCase) CurrentBalance(ctx context.Context, barcode, warehouseCode string) (int64, error) {
	if barcode == "" || warehouseCode == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.movRepo.SumByKey(ctx, barcode, warehouseCode)
}

// BalanceAsOf devuelve el saldo plegando solo eventos con event_time <= t.
func (uc *BalanceUseCase) BalanceAsOf(ctx context.Context, barcode, warehouseCode string, t time.Time) (int64, error) {
	if barcode == "" || warehouseCode == "" {
		return 0, domain.ErrInvalidInput
	}
	events, err := uc.movRepo.ListByKey(ctx, barcode, warehouseCode, nil)
	if err != nil {
		return 0, err
	}
	return domledger.BalanceAsOf(events, t), nil
}
