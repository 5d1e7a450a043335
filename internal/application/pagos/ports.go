// Package pagos casos de uso de pagos con la pasarela Wompi.
package pagos

import (
	"context"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
)

// EventoTransaccion evento de la pasarela ya verificado.
type EventoTransaccion struct {
	Evento          string
	TransaccionID   string
	Referencia      string
	Estado          string // APPROVED, DECLINED, VOIDED, ERROR, PENDING
	Metodo          string
	Moneda          string
	MontoEnCentavos int64
}

// Pasarela puerto hacia la pasarela de pagos.
type Pasarela interface {
	PublicKey() string
	Moneda() string
	// FirmaIntegridad firma los datos del checkout con el secreto de integridad.
	FirmaIntegridad(referencia string, montoEnCentavos int64, moneda string) string
	// VerificarEvento parsea el webhook y valida su checksum; domain.ErrInvalidSignature si no coincide.
	VerificarEvento(body []byte) (*EventoTransaccion, error)
}

// ConfirmadorReserva confirma una reserva a través de las reglas de transición.
type ConfirmadorReserva interface {
	Confirmar(ctx context.Context, id, actorID string) (*dto.ReservaResponse, error)
}
