package reserva

import (
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// Acciones de empleado sobre una reserva.
const (
	AccionConfirmar   = "confirmar"
	AccionRechazar    = "rechazar"
	AccionReprogramar = "reprogramar"
	AccionFinalizar   = "finalizar"
)

// Transicion estados de origen permitidos y estado destino de una acción.
type Transicion struct {
	Desde []string
	Hacia string
}

var transiciones = map[string]Transicion{
	AccionConfirmar: {
		Desde: []string{entity.ReservaPendiente, entity.ReservaReprogramada},
		Hacia: entity.ReservaConfirmada,
	},
	AccionRechazar: {
		Desde: []string{entity.ReservaPendiente, entity.ReservaReprogramada},
		Hacia: entity.ReservaRechazada,
	},
	AccionReprogramar: {
		Desde: []string{entity.ReservaPendiente, entity.ReservaConfirmada, entity.ReservaReprogramada},
		Hacia: entity.ReservaReprogramada,
	},
	AccionFinalizar: {
		Desde: []string{entity.ReservaConfirmada, entity.ReservaReprogramada},
		Hacia: entity.ReservaFinalizada,
	},
}

// TransicionDe devuelve la transición asociada a una acción.
func TransicionDe(accion string) (Transicion, bool) {
	t, ok := transiciones[accion]
	return t, ok
}

// ValidarTransicion comprueba que estadoActual (en cualquier grafía) esté en la lista
// de la acción y devuelve el estado destino. Si no, devuelve *domain.TransitionError.
func ValidarTransicion(accion, estadoActual string) (string, error) {
	t, ok := transiciones[accion]
	if !ok {
		return "", domain.ErrInvalidInput
	}
	actual, ok := NormalizarEstado(estadoActual)
	if ok {
		for _, d := range t.Desde {
			if d == actual {
				return t.Hacia, nil
			}
		}
	}
	return "", &domain.TransitionError{Accion: accion, EstadoActual: estadoActual, Permitidos: t.Desde}
}
