package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// ValidationError agrupa los campos requeridos que faltan o están en blanco.
// Se produce antes de tocar el store; el handler lo traduce a HTTP 400.
type ValidationError struct {
	Fields []string
}

// Error implementa error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: campos requeridos: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError construye el error con los campos que fallaron.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
