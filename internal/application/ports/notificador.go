package ports

import (
	"context"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// NotificacionReserva datos para avisar al cliente un cambio en su reserva.
type NotificacionReserva struct {
	Accion         string
	EstadoAnterior string
	Reserva        *entity.Reserva
	Cliente        *entity.Cliente
}

// Notificador envía notificaciones a clientes (SMTP o solo log).
type Notificador interface {
	NotificarReserva(ctx context.Context, n NotificacionReserva) error
}
