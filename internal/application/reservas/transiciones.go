package reservas

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/domain/reserva"
	"github.com/jhoicas/Turismo-api/pkg/metrics"
	"github.com/jhoicas/Turismo-api/pkg/tracing"
)

// Confirmar pasa la reserva a CONFIRMADA (desde PENDIENTE o REPROGRAMADA).
func (uc *ReservaUseCase) Confirmar(ctx context.Context, id, actorID string) (*dto.ReservaResponse, error) {
	return uc.transicionar(ctx, reserva.AccionConfirmar, id, actorID, nil)
}

// Rechazar pasa la reserva a RECHAZADA y libera sus cupos.
func (uc *ReservaUseCase) Rechazar(ctx context.Context, id, actorID string) (*dto.ReservaResponse, error) {
	return uc.transicionar(ctx, reserva.AccionRechazar, id, actorID, nil)
}

// Finalizar pasa la reserva a FINALIZADA (desde CONFIRMADA o REPROGRAMADA).
func (uc *ReservaUseCase) Finalizar(ctx context.Context, id, actorID string) (*dto.ReservaResponse, error) {
	return uc.transicionar(ctx, reserva.AccionFinalizar, id, actorID, nil)
}

// Reprogramar cambia la fecha de la reserva y la deja en REPROGRAMADA.
// La nueva fecha no puede ser anterior al día actual; se valida después de encontrar la reserva.
func (uc *ReservaUseCase) Reprogramar(ctx context.Context, id, actorID string, fecha time.Time) (*dto.ReservaResponse, error) {
	return uc.transicionar(ctx, reserva.AccionReprogramar, id, actorID, &fecha)
}

func validarFechaReprogramada(fecha time.Time) error {
	if fecha.IsZero() {
		return domain.NewValidationError("fecha", "es obligatorio")
	}
	if antesDeHoy(fecha, time.Now()) {
		return domain.NewValidationError("fecha", "no puede estar en el pasado")
	}
	return nil
}

func antesDeHoy(fecha, now time.Time) bool {
	now = now.In(fecha.Location())
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return fecha.Before(hoy)
}

// transicionar bloquea la reserva, valida la acción contra su lista de estados y escribe
// solo el estado (y la fecha al reprogramar). Notificación y evento van después del commit.
func (uc *ReservaUseCase) transicionar(ctx context.Context, accion, id, actorID string, fecha *time.Time) (*dto.ReservaResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "reservas."+accion)
	defer span.End()

	var (
		actualizada *entity.Reserva
		anterior    string
	)
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		r, err := repos.Reservas.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		hacia, err := reserva.ValidarTransicion(accion, r.Estado)
		if err != nil {
			return err
		}
		if fecha != nil {
			if err := validarFechaReprogramada(*fecha); err != nil {
				return err
			}
		}
		anterior = r.Estado
		if fecha != nil {
			if err := repos.Reservas.UpdateEstadoYFecha(ctx, id, hacia, *fecha); err != nil {
				return err
			}
			r.Fecha = *fecha
		} else if err := repos.Reservas.UpdateEstado(ctx, id, hacia); err != nil {
			return err
		}
		r.Estado = hacia
		r.UpdatedAt = time.Now().UTC()
		if reserva.OcupaCupos(anterior) && !reserva.OcupaCupos(hacia) {
			if err := liberarCupos(ctx, repos, r); err != nil {
				return err
			}
		}
		actualizada = r
		return nil
	})
	if err != nil {
		resultado := "error"
		if errors.Is(err, domain.ErrInvalidTransition) {
			resultado = "invalida"
		} else if errors.Is(err, domain.ErrNotFound) {
			resultado = "no_encontrada"
		}
		metrics.TransicionesReservaTotal.WithLabelValues(accion, resultado).Inc()
		return nil, err
	}
	metrics.TransicionesReservaTotal.WithLabelValues(accion, "ok").Inc()
	uc.log.Info().Str("reserva_id", id).Str("accion", accion).Str("desde", anterior).
		Str("hacia", actualizada.Estado).Str("actor_id", actorID).Msg("transición de reserva")

	uc.notificar(ctx, accion, anterior, actualizada)
	uc.publicar(ctx, ports.DomainEvent{
		Tipo:           ports.EventoReservaTransicion,
		EntidadID:      id,
		Estado:         actualizada.Estado,
		EstadoAnterior: anterior,
		ActorID:        actorID,
		Datos:          map[string]any{"accion": accion},
	})
	return toReservaResponse(actualizada), nil
}

// liberarCupos reabre los tours AGOTADO de la reserva que recuperan cupos.
// Se llama con el estado ya actualizado dentro de la misma transacción.
func liberarCupos(ctx context.Context, repos repository.TxRepos, r *entity.Reserva) error {
	ids := make([]string, 0, len(r.Detalles))
	vistos := map[string]bool{}
	for _, d := range r.Detalles {
		if !vistos[d.TourID] {
			vistos[d.TourID] = true
			ids = append(ids, d.TourID)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		tour, err := repos.Tours.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tour == nil {
			continue
		}
		reservados, err := repos.Tours.CuposReservados(ctx, id)
		if err != nil {
			return err
		}
		disponibles := reserva.CuposDisponibles(tour.CupoMax, reservados)
		if estado := reserva.EstadoTourTrasCambio(tour.Estado, disponibles); estado != tour.Estado {
			if err := repos.Tours.UpdateEstado(ctx, id, estado); err != nil {
				return err
			}
		}
	}
	return nil
}

// AsignarEmpleado registra el empleado que atiende la reserva.
func (uc *ReservaUseCase) AsignarEmpleado(ctx context.Context, id string, in dto.AsignarEmpleadoRequest) (*dto.ReservaResponse, error) {
	if in.EmpleadoID == "" {
		return nil, domain.NewValidationError("empleado_id", "es obligatorio")
	}
	empleado, err := uc.userRepo.GetByID(ctx, in.EmpleadoID)
	if err != nil {
		return nil, err
	}
	if empleado == nil {
		return nil, domain.NewValidationError("empleado_id", "el empleado no existe")
	}
	var actualizada *entity.Reserva
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		r, err := repos.Reservas.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if err := repos.Reservas.AsignarEmpleado(ctx, id, in.EmpleadoID); err != nil {
			return err
		}
		r.EmpleadoID = &in.EmpleadoID
		actualizada = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toReservaResponse(actualizada), nil
}
