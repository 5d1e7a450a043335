package reservas

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/application/ports"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/internal/domain/reserva"
	"github.com/jhoicas/Turismo-api/pkg/metrics"
	"github.com/jhoicas/Turismo-api/pkg/tracing"
	"github.com/jhoicas/Turismo-api/pkg/validate"
)

// CrearReservaTour registra una reserva PENDIENTE sobre uno o más tours.
// Los tours se bloquean en orden de id y los cupos se recalculan bajo el bloqueo,
// así dos reservas concurrentes del último cupo no pueden pasar ambas.
func (uc *ReservaUseCase) CrearReservaTour(ctx context.Context, in dto.CrearReservaRequest) (*dto.ReservaResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "reservas.CrearReservaTour")
	defer span.End()

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	personas := in.MayoresEdad + in.MenoresEdad
	if personas < 1 {
		return nil, domain.NewValidationError("mayores_edad", "la reserva debe incluir al menos una persona")
	}
	porTour := make(map[string]int, len(in.Tours))
	suma := 0
	for _, it := range in.Tours {
		porTour[it.TourID] += it.Cupos
		suma += it.Cupos
	}
	if suma != personas {
		return nil, domain.NewValidationError("tours",
			fmt.Sprintf("la suma de cupos (%d) debe coincidir con mayores_edad + menores_edad (%d)", suma, personas))
	}

	cliente, err := uc.clienteRepo.GetByID(ctx, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.NewValidationError("cliente_id", "el cliente no existe")
	}

	ids := make([]string, 0, len(porTour))
	for id := range porTour {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	now := time.Now().UTC()
	nueva := &entity.Reserva{
		ID:          uuid.New().String(),
		Estado:      entity.ReservaPendiente,
		MayoresEdad: in.MayoresEdad,
		MenoresEdad: in.MenoresEdad,
		ClienteID:   in.ClienteID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		salidas := make(map[string]time.Time, len(ids))
		total := decimal.Zero
		detalles := make([]*entity.DetalleReservaTour, 0, len(ids))
		for _, id := range ids {
			tour, err := repos.Tours.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if tour == nil {
				return fmt.Errorf("tour %s: %w", id, domain.ErrNotFound)
			}
			// AGOTADO pasa al recálculo: sin cupos responde CuposError con el detalle.
			if tour.Estado != entity.TourDisponible && tour.Estado != entity.TourAgotado {
				return fmt.Errorf("tour %s en estado %s: %w", id, tour.Estado, domain.ErrTourNoDisponible)
			}
			reservados, err := repos.Tours.CuposReservados(ctx, id)
			if err != nil {
				return err
			}
			disponibles := reserva.CuposDisponibles(tour.CupoMax, reservados)
			pedidos := porTour[id]
			if pedidos > disponibles {
				return &domain.CuposError{TourID: id, Solicitados: pedidos, Disponibles: disponibles}
			}
			precioTotal := tour.Precio.Mul(decimal.NewFromInt(int64(pedidos)))
			total = total.Add(precioTotal)
			detalles = append(detalles, &entity.DetalleReservaTour{
				ID:              uuid.New().String(),
				ReservaID:       nueva.ID,
				TourID:          id,
				CuposReservados: pedidos,
				PrecioUnitario:  tour.Precio,
				PrecioTotal:     precioTotal,
				CreatedAt:       now,
			})
			salidas[id] = tour.FechaSalida
			if estado := reserva.EstadoTourTrasCambio(tour.Estado, disponibles-pedidos); estado != tour.Estado {
				if err := repos.Tours.UpdateEstado(ctx, id, estado); err != nil {
					return err
				}
			}
		}

		if in.Fecha != nil {
			nueva.Fecha = *in.Fecha
		} else {
			nueva.Fecha = salidas[in.Tours[0].TourID]
		}
		nueva.Total = total
		if err := repos.Reservas.Create(ctx, nueva); err != nil {
			return err
		}
		for _, d := range detalles {
			if err := repos.Reservas.CreateDetalle(ctx, d); err != nil {
				return err
			}
		}
		nueva.Detalles = detalles
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCuposInsuficientes) {
			metrics.ReservasRechazadasCupos.Inc()
		}
		return nil, err
	}

	metrics.ReservasCreadasTotal.Inc()
	uc.log.Info().Str("reserva_id", nueva.ID).Int("cupos", personas).Msg("reserva creada")
	uc.publicar(ctx, ports.DomainEvent{
		Tipo:      ports.EventoReservaCreada,
		EntidadID: nueva.ID,
		Estado:    nueva.Estado,
		Datos:     map[string]any{"cliente_id": nueva.ClienteID, "total": nueva.Total.String()},
	})
	return toReservaResponse(nueva), nil
}
