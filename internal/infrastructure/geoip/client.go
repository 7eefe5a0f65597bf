// Package geoip implementa el lookup externo de geolocalización por IP que
// consume el enriquecedor de auditoría.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// Client consulta un servicio estilo ip-api.com (GET {base}/{ip}). El timeout
// lo acota el ctx del caller; el del http.Client es solo red de seguridad.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient construye el cliente. baseURL sin slash final, ej. "http://ip-api.com/json".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// respuesta del proveedor; status "fail" trae message en vez de campos.
type lookupResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Timezone   string  `json:"timezone"`
	ISP        string  `json:"isp"`
}

// Lookup resuelve {país, región, ciudad, coordenadas, zona horaria, ISP} para la IP.
func (c *Client) Lookup(ctx context.Context, ip string) (*entity.Location, error) {
	url := fmt.Sprintf("%s/%s?fields=status,message,country,regionName,city,lat,lon,timezone,isp", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("geoip: armar request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoip: consultar %s: %w", ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoip: status HTTP %d", resp.StatusCode)
	}
	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geoip: decodificar respuesta: %w", err)
	}
	if body.Status != "success" {
		return nil, fmt.Errorf("geoip: proveedor respondió %q: %s", body.Status, body.Message)
	}
	return &entity.Location{
		Country:  body.Country,
		Region:   body.RegionName,
		City:     body.City,
		Lat:      body.Lat,
		Lon:      body.Lon,
		Timezone: body.Timezone,
		ISP:      body.ISP,
	}, nil
}
