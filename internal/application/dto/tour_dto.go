package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTourRequest entrada para crear un tour.
type CreateTourRequest struct {
	Nombre       string          `json:"nombre" validate:"required,max=200"`
	Descripcion  string          `json:"descripcion"`
	CupoMin      int             `json:"cupo_min" validate:"gte=0"`
	CupoMax      int             `json:"cupo_max" validate:"gte=1"`
	FechaSalida  time.Time       `json:"fecha_salida" validate:"required"`
	FechaRegreso time.Time       `json:"fecha_regreso" validate:"required"`
	Precio       decimal.Decimal `json:"precio"`
	Estado       string          `json:"estado,omitempty"`
}

// UpdateTourRequest campos opcionales para actualizar un tour.
type UpdateTourRequest struct {
	Nombre       *string          `json:"nombre,omitempty" validate:"omitempty,max=200"`
	Descripcion  *string          `json:"descripcion,omitempty"`
	CupoMin      *int             `json:"cupo_min,omitempty" validate:"omitempty,gte=0"`
	CupoMax      *int             `json:"cupo_max,omitempty" validate:"omitempty,gte=1"`
	FechaSalida  *time.Time       `json:"fecha_salida,omitempty"`
	FechaRegreso *time.Time       `json:"fecha_regreso,omitempty"`
	Precio       *decimal.Decimal `json:"precio,omitempty"`
}

// CambiarEstadoTourRequest body para PATCH /api/tours/:id/estado.
type CambiarEstadoTourRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// TourResponse salida de tour con cupos calculados.
type TourResponse struct {
	ID               string          `json:"id"`
	Nombre           string          `json:"nombre"`
	Descripcion      string          `json:"descripcion"`
	CupoMin          int             `json:"cupo_min"`
	CupoMax          int             `json:"cupo_max"`
	CuposReservados  int             `json:"cupos_reservados"`
	CuposDisponibles int             `json:"cupos_disponibles"`
	FechaSalida      time.Time       `json:"fecha_salida"`
	FechaRegreso     time.Time       `json:"fecha_regreso"`
	Precio           decimal.Decimal `json:"precio"`
	Estado           string          `json:"estado"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TourListResponse listado paginado.
type TourListResponse struct {
	Items []TourResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
