package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// ReservaFiltro filtros de listado de reservas. Estado es canónico y debe casar
// también con las grafías históricas guardadas.
type ReservaFiltro struct {
	Estado    string
	ClienteID string
	Limit     int
	Offset    int
}

// ReservaRepository define el puerto de persistencia para Reserva y sus detalles.
// Los detalles no tienen ruta de actualización.
type ReservaRepository interface {
	Create(ctx context.Context, reserva *entity.Reserva) error
	CreateDetalle(ctx context.Context, detalle *entity.DetalleReservaTour) error
	// GetByID devuelve la reserva con sus detalles, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Reserva, error)
	// GetForUpdate bloquea la fila de la reserva; incluye detalles.
	GetForUpdate(ctx context.Context, id string) (*entity.Reserva, error)
	UpdateEstado(ctx context.Context, id, estado string) error
	UpdateEstadoYFecha(ctx context.Context, id, estado string, fecha time.Time) error
	AsignarEmpleado(ctx context.Context, id, empleadoID string) error
	List(ctx context.Context, filtro ReservaFiltro) ([]*entity.Reserva, error)
}
