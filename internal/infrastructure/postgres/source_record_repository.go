package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.SourceRecordRepository = (*SourceRecordRepo)(nil)

// SourceRecordRepo implementación de registros fuente sobre PostgreSQL
// (usable con pool o tx). Una tabla por tipo de registro.
type SourceRecordRepo struct {
	q Querier
}

// NewSourceRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSourceRecordRepository(q Querier) *SourceRecordRepo {
	return &SourceRecordRepo{q: q}
}

// CreateDispatch inserta el despacho y asigna el ID autogenerado.
func (r *SourceRecordRepo) CreateDispatch(ctx context.Context, d *entity.Dispatch) error {
	query := `
		INSERT INTO dispatches (barcode, warehouse_code, customer_name, awb, quantity, cod_amount, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		d.Barcode, d.WarehouseCode, d.CustomerName, d.AWB, d.Quantity, d.CODAmount, d.CreatedAt, d.CreatedBy,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("create dispatch: %w", err)
	}
	return nil
}

// CreateReturn inserta la devolución y asigna el ID autogenerado.
func (r *SourceRecordRepo) CreateReturn(ctx context.Context, ret *entity.Return) error {
	query := `
		INSERT INTO returns (barcode, warehouse_code, customer_name, awb, quantity, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		ret.Barcode, ret.WarehouseCode, ret.CustomerName, ret.AWB, ret.Quantity, ret.Reason, ret.CreatedAt, ret.CreatedBy,
	).Scan(&ret.ID)
	if err != nil {
		return fmt.Errorf("create return: %w", err)
	}
	return nil
}

// CreateDamage inserta la avería y asigna el ID autogenerado.
func (r *SourceRecordRepo) CreateDamage(ctx context.Context, d *entity.Damage) error {
	query := `
		INSERT INTO damages (barcode, warehouse_code, quantity, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		d.Barcode, d.WarehouseCode, d.Quantity, d.Reason, d.CreatedAt, d.CreatedBy,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("create damage: %w", err)
	}
	return nil
}

// CreateRecovery inserta la recuperación y asigna el ID autogenerado.
func (r *SourceRecordRepo) CreateRecovery(ctx context.Context, rec *entity.Recovery) error {
	query := `
		INSERT INTO recoveries (barcode, warehouse_code, quantity, damage_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		rec.Barcode, rec.WarehouseCode, rec.Quantity, rec.DamageID, rec.CreatedAt, rec.CreatedBy,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("create recovery: %w", err)
	}
	return nil
}

// CreateSelfTransfer inserta el traslado y asigna el ID autogenerado.
func (r *SourceRecordRepo) CreateSelfTransfer(ctx context.Context, t *entity.SelfTransfer) error {
	query := `
		INSERT INTO self_transfers (barcode, from_warehouse, to_warehouse, quantity, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		t.Barcode, t.FromWarehouse, t.ToWarehouse, t.Quantity, t.CreatedAt, t.CreatedBy,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create self transfer: %w", err)
	}
	return nil
}

// ResolveDetail busca el registro fuente de la referencia y devuelve sus
// campos de presentación. domain.ErrNotFound si no existe.
func (r *SourceRecordRepo) ResolveDetail(ctx context.Context, ref entity.Reference) (*entity.SourceDetail, error) {
	var (
		d   entity.SourceDetail
		err error
	)
	switch ref.Type {
	case entity.SourceTypeDISPATCH:
		err = r.q.QueryRow(ctx,
			`SELECT customer_name, awb, warehouse_code, quantity FROM dispatches WHERE id = $1`, ref.SourceID,
		).Scan(&d.CustomerName, &d.AWB, &d.WarehouseCode, &d.Quantity)
	case entity.SourceTypeRETURN:
		err = r.q.QueryRow(ctx,
			`SELECT customer_name, awb, warehouse_code, quantity, reason FROM returns WHERE id = $1`, ref.SourceID,
		).Scan(&d.CustomerName, &d.AWB, &d.WarehouseCode, &d.Quantity, &d.Reason)
	case entity.SourceTypeDAMAGE:
		err = r.q.QueryRow(ctx,
			`SELECT warehouse_code, quantity, reason FROM damages WHERE id = $1`, ref.SourceID,
		).Scan(&d.WarehouseCode, &d.Quantity, &d.Reason)
	case entity.SourceTypeRECOVERY:
		err = r.q.QueryRow(ctx,
			`SELECT warehouse_code, quantity FROM recoveries WHERE id = $1`, ref.SourceID,
		).Scan(&d.WarehouseCode, &d.Quantity)
	case entity.SourceTypeSELFTRANSFER:
		err = r.q.QueryRow(ctx,
			`SELECT from_warehouse, to_warehouse, quantity FROM self_transfers WHERE id = $1`, ref.SourceID,
		).Scan(&d.WarehouseCode, &d.ToWarehouse, &d.Quantity)
	default:
		return nil, domain.ErrNotFound
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolve %s: %w", ref.Format(), err)
	}
	return &d, nil
}
