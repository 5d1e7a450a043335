package pagos

import (
	"context"
	"errors"
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

type resultadoEvento struct {
	pago         *entity.Pago
	anterior     string
	ventaPagada   bool
	montoErroneo  bool
	dobleAprobado bool
}

// ProcesarEventoWompi verifica la firma del evento, descarta duplicados y actualiza el Pago.
// Un pago aprobado deja la venta PAGADA o confirma la reserva PENDIENTE.
// Una referencia desconocida se registra y se acepta.
func (uc *PagoUseCase) ProcesarEventoWompi(ctx context.Context, body []byte) (*dto.WebhookResultado, error) {
	ctx, span := tracing.StartSpan(ctx, "pagos.ProcesarEventoWompi")
	defer span.End()

	evt, err := uc.pasarela.VerificarEvento(body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			metrics.WebhookEventosTotal.WithLabelValues("firma_invalida").Inc()
		}
		return nil, err
	}
	estado, ok := MapearEstado(evt.Estado)
	if !ok {
		metrics.WebhookEventosTotal.WithLabelValues("ignorado").Inc()
		return &dto.WebhookResultado{Detalle: "estado " + evt.Estado + " ignorado"}, nil
	}

	clave := "wompi:evento:" + evt.TransaccionID + ":" + evt.Estado
	nuevo, err := uc.idem.MarcarSiNuevo(ctx, clave, TTLEvento)
	if err != nil {
		return nil, err
	}
	if !nuevo {
		metrics.WebhookEventosTotal.WithLabelValues("duplicado").Inc()
		return &dto.WebhookResultado{Detalle: "evento duplicado"}, nil
	}

	var res resultadoEvento
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		pago, err := repos.Pagos.GetByReferencia(ctx, evt.Referencia)
		if err != nil || pago == nil {
			return err
		}
		res.anterior = pago.Estado
		if estado == entity.PagoAprobado && evt.MontoEnCentavos != EnCentavos(pago.Monto) {
			res.montoErroneo = true
			estado = entity.PagoError
		}
		if estado == entity.PagoAprobado {
			otro, err := otroPagoAprobado(ctx, repos.Pagos, pago)
			if err != nil {
				return err
			}
			if otro {
				res.dobleAprobado = true
				estado = entity.PagoError
			}
		}
		pago.Estado = estado
		pago.TransaccionID = evt.TransaccionID
		if evt.Metodo != "" {
			pago.Metodo = evt.Metodo
		}
		if err := repos.Pagos.Update(ctx, pago); err != nil {
			return err
		}
		res.pago = pago
		if estado != entity.PagoAprobado || pago.VentaID == nil {
			return nil
		}
		v, err := repos.Ventas.GetForUpdate(ctx, *pago.VentaID)
		if err != nil {
			return err
		}
		if v != nil && v.Estado == entity.VentaPendiente {
			if err := repos.Ventas.UpdateEstado(ctx, v.ID, entity.VentaPagada); err != nil {
				return err
			}
			res.ventaPagada = true
		}
		return nil
	})
	if err != nil {
		if lerr := uc.idem.Liberar(ctx, clave); lerr != nil {
			uc.log.Error().Err(lerr).Str("clave", clave).Msg("no se pudo liberar la clave del evento")
		}
		metrics.WebhookEventosTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if res.pago == nil {
		metrics.WebhookEventosTotal.WithLabelValues("referencia_desconocida").Inc()
		uc.log.Warn().Str("referencia", evt.Referencia).Str("transaccion_id", evt.TransaccionID).
			Msg("evento de pago con referencia desconocida")
		return &dto.WebhookResultado{Detalle: "referencia desconocida"}, nil
	}
	if res.montoErroneo {
		uc.log.Error().Str("pago_id", res.pago.ID).Int64("monto_evento", evt.MontoEnCentavos).
			Str("monto_pago", res.pago.Monto.String()).Msg("monto aprobado no coincide con el pago")
	}
	if res.dobleAprobado {
		metrics.WebhookEventosTotal.WithLabelValues("doble_aprobado").Inc()
		uc.log.Error().Str("pago_id", res.pago.ID).Str("transaccion_id", evt.TransaccionID).
			Msg("la venta o reserva ya tiene un pago aprobado; el pago queda en ERROR para revisión")
	}
	metrics.WebhookEventosTotal.WithLabelValues(res.pago.Estado).Inc()

	uc.publicar(ctx, ports.DomainEvent{
		Tipo:           ports.EventoPagoActualizado,
		EntidadID:      res.pago.ID,
		Estado:         res.pago.Estado,
		EstadoAnterior: res.anterior,
		ActorID:        ActorPasarela,
		Datos:          map[string]any{"referencia": res.pago.Referencia, "transaccion_id": evt.TransaccionID},
	})
	if res.ventaPagada {
		uc.publicar(ctx, ports.DomainEvent{
			Tipo:           ports.EventoVentaPagada,
			EntidadID:      *res.pago.VentaID,
			Estado:         entity.VentaPagada,
			EstadoAnterior: entity.VentaPendiente,
			ActorID:        ActorPasarela,
		})
	}
	if res.pago.Estado == entity.PagoAprobado && res.pago.ReservaID != nil {
		uc.confirmarReserva(ctx, *res.pago.ReservaID)
	}
	return &dto.WebhookResultado{Procesado: true, Detalle: "pago " + res.pago.Estado}, nil
}

// otroPagoAprobado indica si la venta o reserva del pago ya tiene otro pago APROBADO.
func otroPagoAprobado(ctx context.Context, repo repository.PagoRepository, pago *entity.Pago) (bool, error) {
	var (
		pagos []*entity.Pago
		err   error
	)
	switch {
	case pago.VentaID != nil:
		pagos, err = repo.ListByVenta(ctx, *pago.VentaID)
	case pago.ReservaID != nil:
		pagos, err = repo.ListByReserva(ctx, *pago.ReservaID)
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, p := range pagos {
		if p.ID != pago.ID && p.Estado == entity.PagoAprobado {
			return true, nil
		}
	}
	return false, nil
}

// confirmarReserva confirma la reserva pagada si sigue PENDIENTE. Se hace después del commit
// del pago; si falla, el pago queda registrado y la reserva se confirma a mano.
func (uc *PagoUseCase) confirmarReserva(ctx context.Context, id string) {
	r, err := uc.reservaRepo.GetByID(ctx, id)
	if err != nil || r == nil {
		uc.log.Error().Err(err).Str("reserva_id", id).Msg("reserva del pago no encontrada")
		return
	}
	if estado, _ := reserva.NormalizarEstado(r.Estado); estado != entity.ReservaPendiente {
		uc.log.Info().Str("reserva_id", id).Str("estado", r.Estado).Msg("reserva pagada no está pendiente; no se confirma")
		return
	}
	if _, err := uc.reservas.Confirmar(ctx, id, ActorPasarela); err != nil {
		uc.log.Error().Err(err).Str("reserva_id", id).Msg("no se pudo confirmar la reserva pagada")
	}
}

func (uc *PagoUseCase) publicar(ctx context.Context, evt ports.DomainEvent) {
	evt.Ocurrido = time.Now().UTC()
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		metrics.NotificacionesFallidasTotal.WithLabelValues("evento").Inc()
		uc.log.Error().Err(err).Str("tipo", evt.Tipo).Str("entidad_id", evt.EntidadID).Msg("publicación de evento fallida")
	}
}
