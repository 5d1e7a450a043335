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
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrCuposInsuficientes = errors.New("cupos insuficientes para el tour")
	ErrTourNoDisponible   = errors.New("el tour no está disponible para reservas")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrStockMismatch      = errors.New("el stock resultante no coincide con el calculado")
	ErrInvalidSignature   = errors.New("firma del evento inválida")
)

// ValidationError errores de validación por campo. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError con un solo campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidInput.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// TransitionError describe un cambio de estado rechazado por la lista de estados permitidos.
type TransitionError struct {
	Accion       string
	EstadoActual string
	Permitidos   []string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no se puede %s una reserva en estado %s (permitidos: %s)",
		e.Accion, e.EstadoActual, strings.Join(e.Permitidos, ", "))
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// StockMismatchError indica que el stock_resultante enviado por el cliente no coincide con el recalculado.
type StockMismatchError struct {
	Esperado int
	Recibido int
}

func (e *StockMismatchError) Error() string {
	return fmt.Sprintf("stock resultante esperado %d, recibido %d", e.Esperado, e.Recibido)
}

func (e *StockMismatchError) Unwrap() error { return ErrStockMismatch }

// CuposError detalla los cupos disponibles cuando una reserva excede la capacidad del tour.
type CuposError struct {
	TourID      string
	Solicitados int
	Disponibles int
}

func (e *CuposError) Error() string {
	return fmt.Sprintf("tour %s: solicitados %d cupos, disponibles %d", e.TourID, e.Solicitados, e.Disponibles)
}

func (e *CuposError) Unwrap() error { return ErrCuposInsuficientes }
