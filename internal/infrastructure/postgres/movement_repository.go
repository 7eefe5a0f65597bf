package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.MovementEventRepository = (*MovementEventRepo)(nil)

// MovementEventRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
// La tabla movement_events es append-only: este adaptador no expone UPDATE ni DELETE.
type MovementEventRepo struct {
	q Querier
}

// NewMovementEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementEventRepository(q Querier) *MovementEventRepo {
	return &MovementEventRepo{q: q}
}

const movementColumns = `id, barcode, warehouse_code, type, direction, quantity, reference, correlation_id, event_time, created_at, created_by`

// Create persiste un evento del ledger.
func (r *MovementEventRepo) Create(ctx context.Context, e *entity.MovementEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movement_events (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	ref := (*string)(nil)
	if !e.Reference.IsZero() {
		s := e.Reference.Format()
		ref = &s
	}
	correlation := (*string)(nil)
	if e.CorrelationID != "" {
		correlation = &e.CorrelationID
	}
	createdBy := (*string)(nil)
	if e.CreatedBy != "" {
		createdBy = &e.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		e.ID, e.Barcode, e.WarehouseCode, e.Type, e.Direction, e.Quantity,
		ref, correlation, e.EventTime, e.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement event: %w", err)
	}
	return nil
}

// ListByKey lista los eventos de una clave, ascendente por event_time.
func (r *MovementEventRepo) ListByKey(ctx context.Context, barcode, warehouseCode string, since *time.Time) ([]*entity.MovementEvent, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movement_events WHERE barcode = $1 AND warehouse_code = $2`
	args := []any{barcode, warehouseCode}
	if since != nil {
		query += " AND event_time >= $3"
		args = append(args, *since)
	}
	query += " ORDER BY event_time ASC, created_at ASC"
	return r.list(ctx, query, args...)
}

// ListByBarcode lista los eventos del barcode en todas las bodegas, ascendente.
func (r *MovementEventRepo) ListByBarcode(ctx context.Context, barcode string) ([]*entity.MovementEvent, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movement_events WHERE barcode = $1
		ORDER BY event_time ASC, created_at ASC`
	return r.list(ctx, query, barcode)
}

// ListByReference lista los eventos originados por un registro fuente.
func (r *MovementEventRepo) ListByReference(ctx context.Context, ref entity.Reference) ([]*entity.MovementEvent, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movement_events WHERE reference = $1
		ORDER BY event_time ASC, created_at ASC`
	return r.list(ctx, query, ref.Format())
}

// SumByKey devuelve sum(IN) - sum(OUT) de la clave, calculado en SQL.
func (r *MovementEventRepo) SumByKey(ctx context.Context, barcode, warehouseCode string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'IN' THEN quantity ELSE -quantity END), 0)
		FROM movement_events WHERE barcode = $1 AND warehouse_code = $2`
	var total int64
	if err := r.q.QueryRow(ctx, query, barcode, warehouseCode).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return total, nil
}

// LockKey toma un lock consultivo de transacción sobre la clave. No hay fila
// de saldo que bloquear (el saldo es derivado), así que la serialización por
// clave se hace con pg_advisory_xact_lock; se libera en commit/rollback.
func (r *MovementEventRepo) LockKey(ctx context.Context, barcode, warehouseCode string) error {
	_, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, barcode+"/"+warehouseCode)
	if err != nil {
		return fmt.Errorf("lock key: %w", err)
	}
	return nil
}

func (r *MovementEventRepo) list(ctx context.Context, query string, args ...any) ([]*entity.MovementEvent, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movement events: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementEvent
	for rows.Next() {
		var (
			e           entity.MovementEvent
			ref         *string
			correlation *string
			createdBy   *string
		)
		if err := rows.Scan(&e.ID, &e.Barcode, &e.WarehouseCode, &e.Type, &e.Direction,
			&e.Quantity, &ref, &correlation, &e.EventTime, &e.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movement event: %w", err)
		}
		if ref != nil {
			parsed, err := entity.ParseReference(*ref)
			if err != nil {
				return nil, fmt.Errorf("movement event %s: %w", e.ID, err)
			}
			e.Reference = parsed
		}
		if correlation != nil {
			e.CorrelationID = *correlation
		}
		if createdBy != nil {
			e.CreatedBy = *createdBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
