package audit

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// GeoLookup es el contrato mínimo del proveedor externo de geolocalización.
// Lo implementa geoip.Client.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) (*entity.Location, error)
}

// Enricher completa la ubicación de entradas de auditoría a partir de la IP
// del actor. Es estrictamente aditivo y best-effort: timeout, fallo del
// proveedor o cancelación dejan la entrada válida sin ubicación, sin reintento.
// Los resultados se cachean por IP (LRU con TTL) para acotar el volumen de
// consultas de actores repetidos.
type Enricher struct {
	repo    repository.AuditRepository
	lookup  GeoLookup
	cache   *lru.LRU[string, *entity.Location]
	timeout time.Duration
	log     *logger.Logger
}

// NewEnricher construye el enriquecedor con caché LRU acotada.
func NewEnricher(repo repository.AuditRepository, lookup GeoLookup, cacheSize int, cacheTTL, timeout time.Duration, log *logger.Logger) *Enricher {
	if cacheSize < 16 {
		cacheSize = 16
	}
	return &Enricher{
		repo:    repo,
		lookup:  lookup,
		cache:   lru.NewLRU[string, *entity.Location](cacheSize, nil, cacheTTL),
		timeout: timeout,
		log:     log,
	}
}

// Enrich resuelve la ubicación de la IP y la adjunta a la entrada. Pensado
// para invocarse como goroutine fire-and-forget; usa su propio contexto con
// timeout acotado, independiente del request que originó la auditoría.
func (e *Enricher) Enrich(entryID, ip string) {
	if entryID == "" || ip == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	loc, ok := e.cache.Get(ip)
	if !ok {
		var err error
		loc, err = e.lookup.Lookup(ctx, ip)
		if err != nil {
			e.log.Warn().Err(err).Str("ip", ip).Msg("geolocalización fallida; entrada sin ubicación")
			return
		}
		if loc == nil {
			return
		}
		e.cache.Add(ip, loc)
	}

	if err := e.repo.UpdateLocation(ctx, entryID, loc); err != nil {
		e.log.Warn().Err(err).Str("entry_id", entryID).Msg("no se pudo adjuntar ubicación a la auditoría")
	}
}
