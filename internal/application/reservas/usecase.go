// Package reservas casos de uso de tours y reservas: creación con control de cupos
// y transiciones de estado hechas por empleados.
package reservas

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/pkg/metrics"
)

// ReservaUseCase operaciones sobre reservas.
type ReservaUseCase struct {
	tx          repository.TxRunner
	reservaRepo repository.ReservaRepository
	clienteRepo repository.ClienteRepository
	userRepo    repository.UserRepository
	notificador ports.Notificador
	publisher   ports.EventPublisher
	log         zerolog.Logger
}

// NewReservaUseCase construye el caso de uso de reservas.
func NewReservaUseCase(
	tx repository.TxRunner,
	reservaRepo repository.ReservaRepository,
	clienteRepo repository.ClienteRepository,
	userRepo repository.UserRepository,
	notificador ports.Notificador,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *ReservaUseCase {
	return &ReservaUseCase{
		tx:          tx,
		reservaRepo: reservaRepo,
		clienteRepo: clienteRepo,
		userRepo:    userRepo,
		notificador: notificador,
		publisher:   publisher,
		log:         log.With().Str("component", "reservas").Logger(),
	}
}

// notificar envía el aviso al cliente. Corre después del commit: un fallo se registra y no se devuelve.
func (uc *ReservaUseCase) notificar(ctx context.Context, accion, anterior string, r *entity.Reserva) {
	cliente, err := uc.clienteRepo.GetByID(ctx, r.ClienteID)
	if err != nil || cliente == nil {
		metrics.NotificacionesFallidasTotal.WithLabelValues("email").Inc()
		uc.log.Warn().Err(err).Str("reserva_id", r.ID).Str("cliente_id", r.ClienteID).
			Msg("no se pudo cargar el cliente para notificar")
		return
	}
	n := ports.NotificacionReserva{Accion: accion, EstadoAnterior: anterior, Reserva: r, Cliente: cliente}
	if err := uc.notificador.NotificarReserva(ctx, n); err != nil {
		metrics.NotificacionesFallidasTotal.WithLabelValues("email").Inc()
		uc.log.Error().Err(err).Str("reserva_id", r.ID).Str("accion", accion).Msg("notificación de reserva fallida")
	}
}

func (uc *ReservaUseCase) publicar(ctx context.Context, evt ports.DomainEvent) {
	if evt.Ocurrido.IsZero() {
		evt.Ocurrido = time.Now().UTC()
	}
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		metrics.NotificacionesFallidasTotal.WithLabelValues("evento").Inc()
		uc.log.Error().Err(err).Str("tipo", evt.Tipo).Str("entidad_id", evt.EntidadID).Msg("publicación de evento fallida")
	}
}
