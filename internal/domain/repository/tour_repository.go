package repository

import (
	"context"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// TourRepository define el puerto de persistencia para Tour (DIP).
type TourRepository interface {
	Create(ctx context.Context, tour *entity.Tour) error
	GetByID(ctx context.Context, id string) (*entity.Tour, error)
	// GetForUpdate bloquea la fila del tour (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Tour, error)
	Update(ctx context.Context, tour *entity.Tour) error
	UpdateEstado(ctx context.Context, id, estado string) error
	List(ctx context.Context, estado string, limit, offset int) ([]*entity.Tour, error)
	// CuposReservados devuelve los cupos de cada detalle del tour junto al estado de su reserva.
	CuposReservados(ctx context.Context, tourID string) ([]entity.CupoReservado, error)
}
