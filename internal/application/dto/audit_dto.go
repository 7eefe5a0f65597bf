package dto

import (
	"encoding/json"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// AuditEntryResponse una entrada de auditoría en respuestas HTTP. Details
// viaja como JSON estructurado, no como string escapado; Location se incluye
// solo cuando el enriquecedor la completó.
type AuditEntryResponse struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Action     string            `json:"action"`
	Resource   string            `json:"resource"`
	ResourceID string            `json:"resource_id,omitempty"`
	Details    json.RawMessage   `json:"details,omitempty"`
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent,omitempty"`
	Location   *LocationResponse `json:"location,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// LocationResponse geolocalización aproximada del actor.
type LocationResponse struct {
	Country  string  `json:"country,omitempty"`
	Region   string  `json:"region,omitempty"`
	City     string  `json:"city,omitempty"`
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
	ISP      string  `json:"isp,omitempty"`
}

// AuditListRequest query params de GET /api/audit-logs.
type AuditListRequest struct {
	Resource string `query:"resource"`
	Search   string `query:"search"`
	Limit    int    `query:"limit"`
	Page     int    `query:"page"`
}

// PageRequest devuelve la paginación pedida con los defaults aplicados.
func (r AuditListRequest) PageRequest() PageRequest {
	p := PageRequest{Limit: r.Limit, Page: r.Page}
	p.DefaultPage()
	return p
}

// AuditListResponse respuesta paginada de GET /api/audit-logs.
type AuditListResponse struct {
	PageResponse
	Entries []*AuditEntryResponse `json:"entries"`
}

// FromAuditEntries mapea entradas de dominio a la respuesta HTTP.
func FromAuditEntries(entries []*entity.AuditEntry) []*AuditEntryResponse {
	out := make([]*AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := &AuditEntryResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			Action:     e.Action,
			Resource:   e.Resource,
			ResourceID: e.ResourceID,
			Details:    e.Details,
			IPAddress:  e.IPAddress,
			UserAgent:  e.UserAgent,
			CreatedAt:  e.CreatedAt,
		}
		if e.Location != nil {
			resp.Location = &LocationResponse{
				Country:  e.Location.Country,
				Region:   e.Location.Region,
				City:     e.Location.City,
				Lat:      e.Location.Lat,
				Lon:      e.Location.Lon,
				Timezone: e.Location.Timezone,
				ISP:      e.Location.ISP,
			}
		}
		out = append(out, resp)
	}
	return out
}
