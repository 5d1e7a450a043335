package stock

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/inventario"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/pkg/tracing"
	"github.com/jhoicas/Turismo-api/pkg/validate"
)

// InventarioUseCase movimientos manuales de stock y consulta del kardex.
type InventarioUseCase struct {
	tx             repository.TxRunner
	productoRepo   repository.ProductoRepository
	inventarioRepo repository.InventarioRepository
	log            zerolog.Logger
}

// NewInventarioUseCase construye el caso de uso.
func NewInventarioUseCase(tx repository.TxRunner, productoRepo repository.ProductoRepository, inventarioRepo repository.InventarioRepository, log zerolog.Logger) *InventarioUseCase {
	return &InventarioUseCase{
		tx:             tx,
		productoRepo:   productoRepo,
		inventarioRepo: inventarioRepo,
		log:            log.With().Str("component", "inventario").Logger(),
	}
}

// ActualizarStock registra un movimiento manual. El stock_resultante enviado se verifica
// contra el recalculado bajo bloqueo: si no coincide devuelve StockMismatchError.
func (uc *InventarioUseCase) ActualizarStock(ctx context.Context, productoID, userID string, in dto.ActualizarStockRequest) (*dto.MovimientoResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "inventario.ActualizarStock")
	defer span.End()

	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := inventario.Delta(in.TipoMovimiento, in.Cantidad); err != nil {
		return nil, err
	}
	var mov *entity.Inventario
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		mov, err = RegistrarMovimiento(ctx, repos, Movimiento{
			ProductoID:    productoID,
			Tipo:          in.TipoMovimiento,
			Cantidad:      in.Cantidad,
			Motivo:        in.Motivo,
			UserID:        userID,
			StockEsperado: in.StockResultante,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("producto_id", productoID).Str("tipo", mov.TipoMovimiento).
		Int("stock_resultante", mov.StockResultante).Msg("movimiento de inventario")
	out := toMovimientoResponse(mov)
	return &out, nil
}

// Kardex devuelve el libro del producto y compara la suma de movimientos con stock_actual.
func (uc *InventarioUseCase) Kardex(ctx context.Context, productoID string) (*dto.KardexResponse, error) {
	p, err := uc.productoRepo.GetByID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.inventarioRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	suma := inventario.SumaLibro(movs)
	out := &dto.KardexResponse{
		Producto:    toProductoResponse(p),
		Movimientos: make([]dto.MovimientoResponse, 0, len(movs)),
		SumaLibro:   suma,
		Consistente: suma == p.StockActual,
	}
	for _, m := range movs {
		out.Movimientos = append(out.Movimientos, toMovimientoResponse(m))
	}
	if !out.Consistente {
		uc.log.Warn().Str("producto_id", productoID).Int("suma_libro", suma).
			Int("stock_actual", p.StockActual).Msg("kardex descuadrado")
	}
	return out, nil
}

func toMovimientoResponse(m *entity.Inventario) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:              m.ID,
		ProductoID:      m.ProductoID,
		TipoMovimiento:  m.TipoMovimiento,
		Cantidad:        m.Cantidad,
		StockAnterior:   m.StockAnterior,
		StockResultante: m.StockResultante,
		Motivo:          m.Motivo,
		Referencia:      m.Referencia,
		UserID:          m.UserID,
		FechaMovimiento: m.FechaMovimiento,
	}
}
