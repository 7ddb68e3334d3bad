package dto

// ErrorResponse cuerpo de error HTTP. Details lleva datos estructurados (ej: producto sin stock).
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
