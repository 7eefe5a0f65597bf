package dto

// PageRequest paginación para listados (page 1-based).
type PageRequest struct {
	Limit int `query:"limit" validate:"min=1,max=100"`
	Page  int `query:"page" validate:"min=1"`
}

// DefaultPage aplica valores por defecto si Limit/Page son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Page <= 0 {
		p.Page = 1
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit int `json:"limit"`
	Page  int `json:"page"`
	Total int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
