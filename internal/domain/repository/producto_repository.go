package repository

import (
	"context"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// ProductoRepository define el puerto de persistencia para Producto.
// Update no toca stock_actual: el stock solo cambia con UpdateStock dentro de un movimiento.
type ProductoRepository interface {
	Create(ctx context.Context, producto *entity.Producto) error
	GetByID(ctx context.Context, id string) (*entity.Producto, error)
	GetByCodigo(ctx context.Context, codigo string) (*entity.Producto, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Producto, error)
	Update(ctx context.Context, producto *entity.Producto) error
	UpdateStock(ctx context.Context, id string, stock int) error
	List(ctx context.Context, limit, offset int) ([]*entity.Producto, error)
	ListBajoStock(ctx context.Context) ([]*entity.Producto, error)
}
