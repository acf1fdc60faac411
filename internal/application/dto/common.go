package dto

// PageRequest paginación para listados (basada en página, no en offset).
type PageRequest struct {
	Page    int `query:"page"`
	PerPage int `query:"per_page"`
}

// Normalize aplica valores por defecto y topes.
func (p *PageRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// LimitOffset traduce la página a limit/offset para los repositorios.
func (p PageRequest) LimitOffset() (int, int) {
	return p.PerPage, (p.Page - 1) * p.PerPage
}

// PageMeta sobre de paginación en las respuestas.
type PageMeta struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
}

// NewPageMeta construye el sobre a partir del total y la página pedida.
func NewPageMeta(total int, page PageRequest) PageMeta {
	pages := 0
	if total > 0 {
		pages = (total + page.PerPage - 1) / page.PerPage
	}
	return PageMeta{
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: page.Page,
		PerPage:     page.PerPage,
	}
}

// ErrorResponse cuerpo de error HTTP. Fields lleva el detalle por campo en
// errores de validación; nunca se responde un "failed" pelado.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
