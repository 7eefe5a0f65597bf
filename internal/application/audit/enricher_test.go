package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// fakeGeoLookup cuenta consultas y permite simular fallos o lentitud.
type fakeGeoLookup struct {
	loc     *entity.Location
	err     error
	delay   time.Duration
	lookups int
}

func (g *fakeGeoLookup) Lookup(ctx context.Context, _ string) (*entity.Location, error) {
	g.lookups++
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.loc, nil
}

var bogota = &entity.Location{Country: "Colombia", Region: "Cundinamarca", City: "Bogotá", Timezone: "America/Bogota"}

func TestEnricher_AdjuntaUbicacion(t *testing.T) {
	repo := &fakeAuditRepo{}
	lookup := &fakeGeoLookup{loc: bogota}
	e := audit.NewEnricher(repo, lookup, 64, time.Hour, time.Second, logger.Nop())

	e.Enrich("entry-1", "181.49.10.20")

	require.Contains(t, repo.updated, "entry-1")
	assert.Equal(t, "Bogotá", repo.updated["entry-1"].City)
}

// La caché LRU por IP evita repetir la consulta al proveedor para actores
// recurrentes dentro del TTL.
func TestEnricher_CacheaPorIP(t *testing.T) {
	repo := &fakeAuditRepo{}
	lookup := &fakeGeoLookup{loc: bogota}
	e := audit.NewEnricher(repo, lookup, 64, time.Hour, time.Second, logger.Nop())

	e.Enrich("entry-1", "181.49.10.20")
	e.Enrich("entry-2", "181.49.10.20")
	e.Enrich("entry-3", "190.1.1.1")

	assert.Equal(t, 2, lookup.lookups, "una consulta por IP distinta")
	assert.Len(t, repo.updated, 3, "las tres entradas quedan enriquecidas")
}

// El enriquecimiento es best-effort: si el proveedor falla, la entrada queda
// válida sin ubicación y no hay reintento.
func TestEnricher_ProveedorCaido_EntradaSinUbicacion(t *testing.T) {
	repo := &fakeAuditRepo{}
	lookup := &fakeGeoLookup{err: errors.New("proveedor caído")}
	e := audit.NewEnricher(repo, lookup, 64, time.Hour, time.Second, logger.Nop())

	assert.NotPanics(t, func() { e.Enrich("entry-1", "181.49.10.20") })
	assert.Empty(t, repo.updated)
	assert.Equal(t, 1, lookup.lookups, "sin reintentos")
}

// El timeout acota la consulta: un proveedor lento nunca cuelga al enriquecedor.
func TestEnricher_TimeoutAcotado(t *testing.T) {
	repo := &fakeAuditRepo{}
	lookup := &fakeGeoLookup{loc: bogota, delay: 200 * time.Millisecond}
	e := audit.NewEnricher(repo, lookup, 64, time.Hour, 20*time.Millisecond, logger.Nop())

	start := time.Now()
	e.Enrich("entry-1", "181.49.10.20")

	assert.Less(t, time.Since(start), 150*time.Millisecond)
	assert.Empty(t, repo.updated)
}

// Los fallos no se cachean: la siguiente entrada de la misma IP vuelve a intentar.
func TestEnricher_FalloNoSeCachea(t *testing.T) {
	repo := &fakeAuditRepo{}
	lookup := &fakeGeoLookup{err: errors.New("proveedor caído")}
	e := audit.NewEnricher(repo, lookup, 64, time.Hour, time.Second, logger.Nop())

	e.Enrich("entry-1", "181.49.10.20")
	lookup.err = nil
	lookup.loc = bogota
	e.Enrich("entry-2", "181.49.10.20")

	assert.Equal(t, 2, lookup.lookups)
	require.Contains(t, repo.updated, "entry-2")
}

func TestEnricher_EntradasVacias_Ignoradas(t *testing.T) {
	repo := &fakeAuditRepo{}
	lookup := &fakeGeoLookup{loc: bogota}
	e := audit.NewEnricher(repo, lookup, 64, time.Hour, time.Second, logger.Nop())

	e.Enrich("", "181.49.10.20")
	e.Enrich("entry-1", "")

	assert.Zero(t, lookup.lookups)
	assert.Empty(t, repo.updated)
}
