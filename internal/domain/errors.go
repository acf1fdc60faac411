package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)

// InsufficientStockError rechazo de regla de negocio: la operación dejaría el
// stock en negativo. Lleva el disponible y lo solicitado para que el caller
// pueda decidir (ej. mostrar unidades disponibles).
type InsufficientStockError struct {
	ProductID string
	OutletID  string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en sucursal %s: disponible %d, solicitado %d",
		e.ProductID, e.OutletID, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ValidationError agrupa todos los errores de validación por campo.
// Se acumulan y se devuelven juntos (no fail-fast) para que el caller vea
// todos los problemas en una sola llamada.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError crea un error de validación vacío listo para acumular campos.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add registra el mensaje de error para un campo.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// HasErrors indica si se acumuló al menos un campo inválido.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validación fallida: " + strings.Join(fields, ", ")
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
