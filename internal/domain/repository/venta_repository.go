package repository

import (
	"context"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// VentaRepository define el puerto de persistencia para Venta y DetalleVenta.
type VentaRepository interface {
	Create(ctx context.Context, venta *entity.Venta) error
	CreateDetalle(ctx context.Context, detalle *entity.DetalleVenta) error
	GetByID(ctx context.Context, id string) (*entity.Venta, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Venta, error)
	UpdateEstado(ctx context.Context, id, estado string) error
	List(ctx context.Context, estado string, limit, offset int) ([]*entity.Venta, error)
}
