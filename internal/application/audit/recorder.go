package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// Actor es la identidad autenticada del request que ejecuta la operación.
// Se resuelve siempre desde el token y la conexión, nunca desde el body.
type Actor struct {
	UserID    string
	IP        string
	UserAgent string
}

// NewEntry construye una entrada de auditoría. Falla ruidosamente si el actor
// no está resuelto (UserID o IP vacíos): persistir auditoría sin responsable
// es la clase de defecto que este módulo existe para eliminar.
func NewEntry(actor Actor, action, resource, resourceID string, details map[string]any) (*entity.AuditEntry, error) {
	if actor.UserID == "" || actor.IP == "" {
		return nil, domain.ErrMissingActor
	}
	if action == "" || resource == "" {
		return nil, domain.ErrInvalidInput
	}
	var raw json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &entity.AuditEntry{
		ID:         uuid.New().String(),
		UserID:     actor.UserID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    raw,
		IPAddress:  actor.IP,
		UserAgent:  actor.UserAgent,
		CreatedAt:  time.Now(),
	}, nil
}

// Recorder escribe una entrada de auditoría por operación mutadora. Corre
// después de que el efecto primario hizo commit: un fallo aquí se loguea y se
// traga, jamás revierte ni hace fallar la operación primaria.
type Recorder struct {
	repo     repository.AuditRepository
	enricher *Enricher // opcional; nil desactiva el enriquecimiento
	log      *logger.Logger
}

// NewRecorder construye el recorder. enricher puede ser nil.
func NewRecorder(repo repository.AuditRepository, enricher *Enricher, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, enricher: enricher, log: log}
}

// Record construye y persiste la entrada, y dispara el enriquecimiento de
// ubicación en segundo plano. Nunca devuelve error al caller.
func (r *Recorder) Record(ctx context.Context, actor Actor, action, resource, resourceID string, details map[string]any) {
	entry, err := NewEntry(actor, action, resource, resourceID, details)
	if err != nil {
		// Actor sin resolver o detalle inserializable: defecto de programación,
		// no se persiste una entrada huérfana.
		r.log.Error().Err(err).
			Str("action", action).
			Str("resource", resource).
			Msg("auditoría descartada: construcción inválida")
		return
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		r.log.Error().Err(err).
			Str("action", action).
			Str("resource", resource).
			Str("resource_id", resourceID).
			Msg("fallo al escribir auditoría (operación primaria intacta)")
		return
	}
	if r.enricher != nil {
		go r.enricher.Enrich(entry.ID, entry.IPAddress)
	}
}
