package repository

import (
	"context"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// InventarioRepository libro de inventario: solo inserción y lectura.
type InventarioRepository interface {
	Create(ctx context.Context, mov *entity.Inventario) error
	// ListByProducto devuelve los movimientos del producto en orden cronológico.
	ListByProducto(ctx context.Context, productoID string) ([]*entity.Inventario, error)
}
