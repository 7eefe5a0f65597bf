package entity

import (
	"encoding/json"
	"time"
)

// AuditEntry es el registro inmutable de una operación mutadora: quién, qué y
// sobre qué recurso. Solo Location se completa después (enriquecimiento
// asíncrono); el resto nunca cambia.
type AuditEntry struct {
	ID         string
	UserID     string
	Action     string // constante punto-nombrada, ej. "dispatch.create"
	Resource   string // ej. "dispatch", "role"
	ResourceID string
	Details    json.RawMessage // jsonb con el detalle propio de la operación
	IPAddress  string
	UserAgent  string
	Location   *Location // nil hasta que el enriquecedor lo complete (si llega)
	CreatedAt  time.Time
}

// Location es la geolocalización aproximada de la IP del actor.
type Location struct {
	Country  string  `json:"country,omitempty"`
	Region   string  `json:"region,omitempty"`
	City     string  `json:"city,omitempty"`
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
	ISP      string  `json:"isp,omitempty"`
}
