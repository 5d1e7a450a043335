package repository

import (
	"context"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// PagoRepository define el puerto de persistencia para pagos de la pasarela.
type PagoRepository interface {
	Create(ctx context.Context, pago *entity.Pago) error
	GetByReferencia(ctx context.Context, referencia string) (*entity.Pago, error)
	Update(ctx context.Context, pago *entity.Pago) error
	ListByVenta(ctx context.Context, ventaID string) ([]*entity.Pago, error)
	// ListByVentas agrupa los pagos por venta_id.
	ListByVentas(ctx context.Context, ventaIDs []string) (map[string][]*entity.Pago, error)
	ListByReserva(ctx context.Context, reservaID string) ([]*entity.Pago, error)
}
