package ledger

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el registro fuente y sus
// eventos del ledger se escriben juntos o no se escribe nada: un disconnect
// del cliente a mitad del request revierte ambos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementEventRepository,
		srcRepo repository.SourceRecordRepository,
	) error) error
}
