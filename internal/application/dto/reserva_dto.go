package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservaTourItem tour y cupos dentro de una reserva.
type ReservaTourItem struct {
	TourID string `json:"tour_id" validate:"required"`
	Cupos  int    `json:"cupos" validate:"gte=1"`
}

// CrearReservaRequest body para POST /api/reservas.
// mayores_edad + menores_edad debe coincidir con la suma de cupos de los tours.
type CrearReservaRequest struct {
	ClienteID   string            `json:"cliente_id" validate:"required"`
	Fecha       *time.Time        `json:"fecha,omitempty"`
	MayoresEdad int               `json:"mayores_edad" validate:"gte=0"`
	MenoresEdad int               `json:"menores_edad" validate:"gte=0"`
	Tours       []ReservaTourItem `json:"tours" validate:"required,min=1,dive"`
}

// ReprogramarReservaRequest body para PATCH /api/reservas/:id/reprogramar.
type ReprogramarReservaRequest struct {
	Fecha time.Time `json:"fecha" validate:"required"`
}

// AsignarEmpleadoRequest body para PATCH /api/reservas/:id/empleado.
type AsignarEmpleadoRequest struct {
	EmpleadoID string `json:"empleado_id" validate:"required"`
}

// DetalleReservaResponse línea de reserva.
type DetalleReservaResponse struct {
	ID              string          `json:"id"`
	TourID          string          `json:"tour_id"`
	CuposReservados int             `json:"cupos_reservados"`
	PrecioUnitario  decimal.Decimal `json:"precio_unitario"`
	PrecioTotal     decimal.Decimal `json:"precio_total"`
}

// ReservaResponse salida de reserva.
type ReservaResponse struct {
	ID          string                   `json:"id"`
	Fecha       time.Time                `json:"fecha"`
	Estado      string                   `json:"estado"`
	MayoresEdad int                      `json:"mayores_edad"`
	MenoresEdad int                      `json:"menores_edad"`
	Total       decimal.Decimal          `json:"total"`
	ClienteID   string                   `json:"cliente_id"`
	EmpleadoID  *string                  `json:"empleado_id"`
	Detalles    []DetalleReservaResponse `json:"detalles"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ReservaListResponse listado paginado.
type ReservaListResponse struct {
	Items []ReservaResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
