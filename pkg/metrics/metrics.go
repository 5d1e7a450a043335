// Package metrics contadores e histogramas Prometheus de la aplicación.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservasCreadasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservas_creadas_total",
		Help: "Total de reservas de tour creadas",
	})

	ReservasRechazadasCupos = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservas_rechazadas_por_cupos_total",
		Help: "Intentos de reserva rechazados por falta de cupos",
	})

	TransicionesReservaTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservas_transiciones_total",
		Help: "Transiciones de estado de reservas por acción y resultado",
	}, []string{"accion", "resultado"})

	MovimientosInventarioTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventario_movimientos_total",
		Help: "Movimientos registrados en el libro de inventario por tipo",
	}, []string{"tipo"})

	VentasCreadasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ventas_creadas_total",
		Help: "Total de ventas registradas",
	})

	VentasInconsistentes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ventas_inconsistentes_detectadas_total",
		Help: "Ventas cuyo estado no coincide con sus pagos, detectadas en lectura",
	})

	WebhookEventosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wompi_webhook_eventos_total",
		Help: "Eventos de Wompi recibidos por resultado",
	}, []string{"resultado"})

	NotificacionesFallidasTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notificaciones_fallidas_total",
		Help: "Notificaciones o eventos que no se pudieron enviar",
	}, []string{"canal"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
