// Package stock casos de uso de productos y del libro de inventario.
package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/inventario"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/pkg/metrics"
)

// Movimiento entrada para registrar una fila del libro.
// StockEsperado, si viene, debe coincidir con el stock recalculado.
type Movimiento struct {
	ProductoID    string
	Tipo          string
	Cantidad      int
	Motivo        string
	Referencia    string
	UserID        string
	StockEsperado *int
}

// RegistrarMovimiento bloquea el producto, recalcula el stock y escribe la fila del libro
// junto con el nuevo stock_actual. Debe llamarse dentro de TxRunner.Run.
func RegistrarMovimiento(ctx context.Context, repos repository.TxRepos, m Movimiento) (*entity.Inventario, error) {
	p, err := repos.Productos.GetForUpdate(ctx, m.ProductoID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	mov, err := inventario.NuevoMovimiento(p, m.Tipo, m.Cantidad, m.Motivo, m.Referencia, m.UserID)
	if err != nil {
		return nil, err
	}
	if m.StockEsperado != nil && *m.StockEsperado != mov.StockResultante {
		return nil, &domain.StockMismatchError{Esperado: mov.StockResultante, Recibido: *m.StockEsperado}
	}
	mov.ID = uuid.New().String()
	mov.FechaMovimiento = time.Now().UTC()
	if err := repos.Inventario.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := repos.Productos.UpdateStock(ctx, p.ID, mov.StockResultante); err != nil {
		return nil, err
	}
	metrics.MovimientosInventarioTotal.WithLabelValues(mov.TipoMovimiento).Inc()
	return mov, nil
}
