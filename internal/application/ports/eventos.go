package ports

import (
	"context"
	"time"
)

// Tipos de evento de dominio publicados tras un commit.
const (
	EventoReservaCreada     = "reserva.creada"
	EventoReservaTransicion = "reserva.transicion"
	EventoVentaCreada       = "venta.creada"
	EventoVentaAnulada      = "venta.anulada"
	EventoVentaPagada       = "venta.pagada"
	EventoPagoActualizado   = "pago.actualizado"
)

// DomainEvent cambio de estado ya confirmado en la BD.
type DomainEvent struct {
	Tipo           string         `json:"tipo"`
	EntidadID      string         `json:"entidad_id"`
	Estado         string         `json:"estado"`
	EstadoAnterior string         `json:"estado_anterior,omitempty"`
	ActorID        string         `json:"actor_id,omitempty"`
	Ocurrido       time.Time      `json:"ocurrido"`
	Datos          map[string]any `json:"datos,omitempty"`
}

// EventPublisher puerto de salida para eventos de dominio (Kafka o no-op).
// Los errores de publicación no revierten la operación que los generó.
type EventPublisher interface {
	Publish(ctx context.Context, evt DomainEvent) error
}
