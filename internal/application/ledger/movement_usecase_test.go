package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/audit"
	appledger "github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un store compartido con semántica todo-o-nada en Run,
// igual que la transacción real (snapshot al entrar, restore si fn falla).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	events     []*entity.MovementEvent
	dispatches []*entity.Dispatch
	returns    []*entity.Return
	damages    []*entity.Damage
	recoveries []*entity.Recovery
	transfers  []*entity.SelfTransfer
	nextSrcID  int64
	nextEvent  int64

	// ops registra las llamadas al repositorio de eventos en orden, para
	// verificar la disciplina de serialización (lock antes de leer el saldo).
	// No participa del snapshot: una transacción revertida igual llamó.
	ops []string
}

type storeSnapshot struct {
	events, dispatches, returns, damages, recoveries, transfers int
	nextSrcID, nextEvent                                        int64
}

func (s *memStore) snapshot() storeSnapshot {
	return storeSnapshot{
		events: len(s.events), dispatches: len(s.dispatches), returns: len(s.returns),
		damages: len(s.damages), recoveries: len(s.recoveries), transfers: len(s.transfers),
		nextSrcID: s.nextSrcID, nextEvent: s.nextEvent,
	}
}

func (s *memStore) restore(snap storeSnapshot) {
	s.events = s.events[:snap.events]
	s.dispatches = s.dispatches[:snap.dispatches]
	s.returns = s.returns[:snap.returns]
	s.damages = s.damages[:snap.damages]
	s.recoveries = s.recoveries[:snap.recoveries]
	s.transfers = s.transfers[:snap.transfers]
	s.nextSrcID = snap.nextSrcID
	s.nextEvent = snap.nextEvent
}

type memMovRepo struct{ s *memStore }

func (r *memMovRepo) Create(_ context.Context, e *entity.MovementEvent) error {
	r.s.ops = append(r.s.ops, "create:"+e.Barcode+"/"+e.WarehouseCode)
	r.s.nextEvent++
	if e.ID == "" {
		e.ID = fmt.Sprintf("evt-%d", r.s.nextEvent)
	}
	cp := *e
	r.s.events = append(r.s.events, &cp)
	return nil
}

func (r *memMovRepo) ListByKey(_ context.Context, barcode, warehouseCode string, _ *time.Time) ([]*entity.MovementEvent, error) {
	var out []*entity.MovementEvent
	for _, e := range r.s.events {
		if e.Barcode == barcode && e.WarehouseCode == warehouseCode {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memMovRepo) ListByBarcode(_ context.Context, barcode string) ([]*entity.MovementEvent, error) {
	var out []*entity.MovementEvent
	for _, e := range r.s.events {
		if e.Barcode == barcode {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memMovRepo) ListByReference(_ context.Context, ref entity.Reference) ([]*entity.MovementEvent, error) {
	var out []*entity.MovementEvent
	for _, e := range r.s.events {
		if e.Reference == ref {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memMovRepo) SumByKey(_ context.Context, barcode, warehouseCode string) (int64, error) {
	r.s.ops = append(r.s.ops, "sum:"+barcode+"/"+warehouseCode)
	var total int64
	for _, e := range r.s.events {
		if e.Barcode == barcode && e.WarehouseCode == warehouseCode {
			total += e.SignedQuantity()
		}
	}
	return total, nil
}

func (r *memMovRepo) LockKey(_ context.Context, barcode, warehouseCode string) error {
	r.s.ops = append(r.s.ops, "lock:"+barcode+"/"+warehouseCode)
	return nil
}

type memSrcRepo struct{ s *memStore }

func (r *memSrcRepo) CreateDispatch(_ context.Context, d *entity.Dispatch) error {
	r.s.nextSrcID++
	d.ID = r.s.nextSrcID
	r.s.dispatches = append(r.s.dispatches, d)
	return nil
}

func (r *memSrcRepo) CreateReturn(_ context.Context, ret *entity.Return) error {
	r.s.nextSrcID++
	ret.ID = r.s.nextSrcID
	r.s.returns = append(r.s.returns, ret)
	return nil
}

func (r *memSrcRepo) CreateDamage(_ context.Context, d *entity.Damage) error {
	r.s.nextSrcID++
	d.ID = r.s.nextSrcID
	r.s.damages = append(r.s.damages, d)
	return nil
}

func (r *memSrcRepo) CreateRecovery(_ context.Context, rec *entity.Recovery) error {
	r.s.nextSrcID++
	rec.ID = r.s.nextSrcID
	r.s.recoveries = append(r.s.recoveries, rec)
	return nil
}

func (r *memSrcRepo) CreateSelfTransfer(_ context.Context, t *entity.SelfTransfer) error {
	r.s.nextSrcID++
	t.ID = r.s.nextSrcID
	r.s.transfers = append(r.s.transfers, t)
	return nil
}

func (r *memSrcRepo) ResolveDetail(context.Context, entity.Reference) (*entity.SourceDetail, error) {
	return nil, domain.ErrNotFound
}

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(_ context.Context, fn func(repository.MovementEventRepository, repository.SourceRecordRepository) error) error {
	snap := t.s.snapshot()
	if err := fn(&memMovRepo{t.s}, &memSrcRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

type memAuditRepo struct {
	entries []*entity.AuditEntry
}

func (r *memAuditRepo) Create(_ context.Context, e *entity.AuditEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *memAuditRepo) UpdateLocation(context.Context, string, *entity.Location) error { return nil }

func (r *memAuditRepo) List(_ context.Context, _ repository.AuditFilter, _, _ int) ([]*entity.AuditEntry, int, error) {
	return r.entries, len(r.entries), nil
}

func (r *memAuditRepo) ListAll(context.Context, repository.AuditFilter) ([]*entity.AuditEntry, error) {
	return r.entries, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testActor = audit.Actor{UserID: "usr-1", IP: "10.1.2.3", UserAgent: "go-test"}

func newFixture() (*appledger.MovementUseCase, *memStore, *memAuditRepo) {
	store := &memStore{}
	auditRepo := &memAuditRepo{}
	recorder := audit.NewRecorder(auditRepo, nil, logger.Nop())
	uc := appledger.NewMovementUseCase(&memTxRunner{store}, recorder)
	return uc, store, auditRepo
}

func balanceOf(t *testing.T, store *memStore, barcode, warehouse string) int64 {
	t.Helper()
	sum, err := (&memMovRepo{store}).SumByKey(context.Background(), barcode, warehouse)
	require.NoError(t, err)
	return sum
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestOpening_RegistraSaldoInicial(t *testing.T) {
	uc, store, auditRepo := newFixture()
	ctx := context.Background()

	require.NoError(t, uc.Opening(ctx, appledger.OpeningInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG", Quantity: 100,
	}))

	require.Len(t, store.events, 1)
	e := store.events[0]
	assert.Equal(t, entity.MovementTypeOPENING, e.Type)
	assert.Equal(t, entity.DirectionIN, e.Direction)
	assert.True(t, e.Reference.IsZero(), "la apertura no lleva registro fuente")
	assert.Equal(t, int64(100), balanceOf(t, store, "PRD-001", "BOG"))

	require.Len(t, auditRepo.entries, 1, "exactamente una entrada de auditoría por operación")
	assert.Equal(t, "opening.create", auditRepo.entries[0].Action)
	assert.Equal(t, "usr-1", auditRepo.entries[0].UserID)
}

func TestDispatch_DescuentaYReferenciaLaFuente(t *testing.T) {
	uc, store, auditRepo := newFixture()
	ctx := context.Background()

	require.NoError(t, uc.Opening(ctx, appledger.OpeningInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG", Quantity: 100,
	}))
	id, err := uc.Dispatch(ctx, appledger.DispatchInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG",
		CustomerName: "Cliente Uno", AWB: "AWB-9", Quantity: 30,
		CODAmount: decimal.NewFromInt(50000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	assert.Equal(t, int64(70), balanceOf(t, store, "PRD-001", "BOG"))
	require.Len(t, store.dispatches, 1)

	last := store.events[len(store.events)-1]
	assert.Equal(t, entity.MovementTypeDISPATCH, last.Type)
	assert.Equal(t, entity.DirectionOUT, last.Direction)
	assert.Equal(t, "DISPATCH:1", last.Reference.Format(),
		"el evento debe apuntar a su despacho por referencia tipada")

	require.Len(t, auditRepo.entries, 2)
	assert.Equal(t, "dispatch.create", auditRepo.entries[1].Action)
}

// Propiedad central del ledger: un OUT que excedería el saldo se rechaza y no
// persiste nada, ni evento ni registro fuente ni auditoría.
func TestDispatch_StockInsuficiente_NoPersisteNada(t *testing.T) {
	uc, store, auditRepo := newFixture()
	ctx := context.Background()

	require.NoError(t, uc.Opening(ctx, appledger.OpeningInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG", Quantity: 50,
	}))

	_, err := uc.Dispatch(ctx, appledger.DispatchInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG",
		CustomerName: "Cliente Uno", Quantity: 80,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Len(t, store.events, 1, "solo debe quedar el evento de apertura")
	assert.Empty(t, store.dispatches, "el despacho rechazado no debe persistirse")
	assert.Equal(t, int64(50), balanceOf(t, store, "PRD-001", "BOG"))
	assert.Len(t, auditRepo.entries, 1, "una operación rechazada no se audita como mutación")
}

func TestDispatch_ClaveSinHistoria_EsStockInsuficiente(t *testing.T) {
	uc, _, _ := newFixture()

	_, err := uc.Dispatch(context.Background(), appledger.DispatchInput{
		Actor: testActor, Barcode: "PRD-X", WarehouseCode: "BOG",
		CustomerName: "Cliente", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"clave sin eventos tiene saldo cero, no es un error distinto")
}

func TestDispatch_CODNegativo_Rechazado(t *testing.T) {
	uc, store, _ := newFixture()

	_, err := uc.Dispatch(context.Background(), appledger.DispatchInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG",
		CustomerName: "Cliente", Quantity: 1,
		CODAmount: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
	assert.Empty(t, store.events)
}

func TestReturnDamageRecover_CicloCompleto(t *testing.T) {
	uc, store, _ := newFixture()
	ctx := context.Background()

	require.NoError(t, uc.Opening(ctx, appledger.OpeningInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG", Quantity: 50,
	}))
	_, err := uc.Dispatch(ctx, appledger.DispatchInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG",
		CustomerName: "Cliente", Quantity: 20,
	})
	require.NoError(t, err)
	_, err = uc.Return(ctx, appledger.ReturnInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG",
		CustomerName: "Cliente", Quantity: 5, Reason: "rechazo en entrega",
	})
	require.NoError(t, err)
	damageID, err := uc.Damage(ctx, appledger.DamageInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG",
		Quantity: 3, Reason: "caja aplastada",
	})
	require.NoError(t, err)
	_, err = uc.Recover(ctx, appledger.RecoveryInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG",
		Quantity: 2, DamageID: &damageID,
	})
	require.NoError(t, err)

	// 50 - 20 + 5 - 3 + 2
	assert.Equal(t, int64(34), balanceOf(t, store, "PRD-001", "BOG"))
	assert.Len(t, store.events, 5)
}

func TestSelfTransfer_DosEventosCorrelacionados(t *testing.T) {
	uc, store, auditRepo := newFixture()
	ctx := context.Background()

	require.NoError(t, uc.Opening(ctx, appledger.OpeningInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG", Quantity: 100,
	}))
	id, err := uc.SelfTransfer(ctx, appledger.SelfTransferInput{
		Actor: testActor, Barcode: "PRD-001",
		FromWarehouse: "BOG", ToWarehouse: "MED", Quantity: 40,
	})
	require.NoError(t, err)

	ref := entity.Reference{Type: entity.SourceTypeSELFTRANSFER, SourceID: id}
	pair, err := (&memMovRepo{store}).ListByReference(ctx, ref)
	require.NoError(t, err)
	require.Len(t, pair, 2, "un traslado produce exactamente dos eventos")

	out, in := pair[0], pair[1]
	assert.Equal(t, entity.DirectionOUT, out.Direction)
	assert.Equal(t, "BOG", out.WarehouseCode)
	assert.Equal(t, entity.DirectionIN, in.Direction)
	assert.Equal(t, "MED", in.WarehouseCode)
	assert.NotEmpty(t, out.CorrelationID)
	assert.Equal(t, out.CorrelationID, in.CorrelationID,
		"ambos lados comparten el mismo CorrelationID")
	assert.Equal(t, out.Quantity, in.Quantity)

	assert.Equal(t, int64(60), balanceOf(t, store, "PRD-001", "BOG"))
	assert.Equal(t, int64(40), balanceOf(t, store, "PRD-001", "MED"))
	assert.Len(t, auditRepo.entries, 2)
}

// Atomicidad del traslado: o quedan los dos eventos o no queda ninguno.
func TestSelfTransfer_Insuficiente_TodoONada(t *testing.T) {
	uc, store, _ := newFixture()
	ctx := context.Background()

	require.NoError(t, uc.Opening(ctx, appledger.OpeningInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG", Quantity: 10,
	}))
	_, err := uc.SelfTransfer(ctx, appledger.SelfTransferInput{
		Actor: testActor, Barcode: "PRD-001",
		FromWarehouse: "BOG", ToWarehouse: "MED", Quantity: 40,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Len(t, store.events, 1, "no debe quedar ningún evento del traslado")
	assert.Empty(t, store.transfers)
	assert.Equal(t, int64(10), balanceOf(t, store, "PRD-001", "BOG"))
	assert.Equal(t, int64(0), balanceOf(t, store, "PRD-001", "MED"))
}

// Disciplina de serialización: el lock de la clave se toma ANTES de leer el
// saldo; leer sin lock permitiría que dos OUT concurrentes vean el mismo
// saldo y lo sobregiren.
func TestDispatch_LockAntesDeLeerElSaldo(t *testing.T) {
	uc, store, _ := newFixture()
	ctx := context.Background()

	require.NoError(t, uc.Opening(ctx, appledger.OpeningInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG", Quantity: 100,
	}))
	store.ops = nil

	_, err := uc.Dispatch(ctx, appledger.DispatchInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "BOG",
		CustomerName: "Cliente", Quantity: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"lock:PRD-001/BOG",
		"sum:PRD-001/BOG",
		"create:PRD-001/BOG",
	}, store.ops, "la secuencia dentro de la transacción es lock → leer saldo → insertar")
}

// El traslado toma los locks de AMBAS bodegas en orden global determinista
// (ordenadas por nombre, no origen→destino) para que dos traslados cruzados
// concurrentes no se bloqueen mutuamente.
func TestSelfTransfer_LockeaAmbasClavesEnOrdenDeterminista(t *testing.T) {
	uc, store, _ := newFixture()
	ctx := context.Background()

	require.NoError(t, uc.Opening(ctx, appledger.OpeningInput{
		Actor: testActor, Barcode: "PRD-001", WarehouseCode: "MED", Quantity: 100,
	}))
	store.ops = nil

	// Origen MED, destino BOG: el orden de lock igual es BOG → MED.
	_, err := uc.SelfTransfer(ctx, appledger.SelfTransferInput{
		Actor: testActor, Barcode: "PRD-001",
		FromWarehouse: "MED", ToWarehouse: "BOG", Quantity: 40,
	})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(store.ops), 2)
	assert.Equal(t, "lock:PRD-001/BOG", store.ops[0])
	assert.Equal(t, "lock:PRD-001/MED", store.ops[1])

	// Y el saldo del origen solo se lee con su lock ya tomado.
	assert.Contains(t, store.ops[2:], "sum:PRD-001/MED")
}

func TestSelfTransfer_MismaBodega_Rechazado(t *testing.T) {
	uc, _, _ := newFixture()

	_, err := uc.SelfTransfer(context.Background(), appledger.SelfTransferInput{
		Actor: testActor, Barcode: "PRD-001",
		FromWarehouse: "BOG", ToWarehouse: "BOG", Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)
}

func TestMovimientos_EntradasInvalidas(t *testing.T) {
	uc, store, auditRepo := newFixture()
	ctx := context.Background()

	cases := []struct {
		nombre string
		fn     func() error
	}{
		{"apertura cantidad cero", func() error {
			return uc.Opening(ctx, appledger.OpeningInput{Actor: testActor, Barcode: "P", WarehouseCode: "BOG"})
		}},
		{"apertura cantidad negativa", func() error {
			return uc.Opening(ctx, appledger.OpeningInput{Actor: testActor, Barcode: "P", WarehouseCode: "BOG", Quantity: -3})
		}},
		{"despacho sin barcode", func() error {
			_, err := uc.Dispatch(ctx, appledger.DispatchInput{Actor: testActor, WarehouseCode: "BOG", Quantity: 1})
			return err
		}},
		{"devolución sin bodega", func() error {
			_, err := uc.Return(ctx, appledger.ReturnInput{Actor: testActor, Barcode: "P", Quantity: 1})
			return err
		}},
		{"traslado cantidad cero", func() error {
			_, err := uc.SelfTransfer(ctx, appledger.SelfTransferInput{Actor: testActor, Barcode: "P", FromWarehouse: "A", ToWarehouse: "B"})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			assert.ErrorIs(t, tc.fn(), domain.ErrInvalidMovement)
		})
	}

	assert.Empty(t, store.events, "las entradas inválidas no tocan el ledger")
	assert.Empty(t, auditRepo.entries)
}
