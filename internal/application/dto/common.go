package dto

// ErrorResponse cuerpo de error HTTP. Code es legible por máquina
// (VALIDATION, EMAIL_NOT_VERIFIED, EMAIL_NOT_WHITELISTED, NOT_FOUND...);
// Fields enumera los campos que fallaron en errores de validación.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}
