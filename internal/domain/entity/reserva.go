package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados canónicos de una reserva.
const (
	ReservaPendiente    = "PENDIENTE"
	ReservaConfirmada   = "CONFIRMADA"
	ReservaRechazada    = "RECHAZADA"
	ReservaReprogramada = "REPROGRAMADA"
	ReservaFinalizada   = "FINALIZADA"
)

// Reserva agrupa uno o más tours reservados por un cliente.
// EmpleadoID es nil hasta que un empleado la toma.
type Reserva struct {
	ID          string
	Fecha       time.Time
	Estado      string // puede venir con grafías históricas; ver reserva.NormalizarEstado
	MayoresEdad int
	MenoresEdad int
	Total       decimal.Decimal
	ClienteID   string
	EmpleadoID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Detalles    []*DetalleReservaTour
}

// CuposTotales personas incluidas en la reserva.
func (r *Reserva) CuposTotales() int {
	return r.MayoresEdad + r.MenoresEdad
}

// DetalleReservaTour une una reserva con un tour. Inmutable una vez creado.
type DetalleReservaTour struct {
	ID              string
	ReservaID       string
	TourID          string
	CuposReservados int
	PrecioUnitario  decimal.Decimal
	PrecioTotal     decimal.Decimal
	CreatedAt       time.Time
}

// CupoReservado proyección usada para el cálculo de cupos: cupos de un detalle
// junto con el estado actual de su reserva.
type CupoReservado struct {
	ReservaID     string
	EstadoReserva string
	Cupos         int
}
