package stock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Turismo-api/internal/application/dto"
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/inventario"
	"github.com/jhoicas/Turismo-api/internal/domain/repository"
	"github.com/jhoicas/Turismo-api/pkg/validate"
)

// MotivoStockInicial motivo de la ENTRADA creada junto con el producto.
const MotivoStockInicial = "Stock inicial"

// ProductoUseCase casos de uso CRUD de productos.
type ProductoUseCase struct {
	tx   repository.TxRunner
	repo repository.ProductoRepository
}

// NewProductoUseCase construye el caso de uso de productos.
func NewProductoUseCase(tx repository.TxRunner, repo repository.ProductoRepository) *ProductoUseCase {
	return &ProductoUseCase{tx: tx, repo: repo}
}

// Create persiste el producto con stock 0 y registra el stock inicial como ENTRADA,
// de modo que la suma del libro siempre coincide con stock_actual.
func (uc *ProductoUseCase) Create(ctx context.Context, userID string, in dto.CreateProductoRequest) (*dto.ProductoResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if in.Precio.IsNegative() {
		return nil, domain.NewValidationError("precio", "no puede ser negativo")
	}
	existing, err := uc.repo.GetByCodigo(ctx, in.Codigo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	p := &entity.Producto{
		ID:          uuid.New().String(),
		Codigo:      in.Codigo,
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Precio:      in.Precio,
		StockMinimo: in.StockMinimo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Productos.Create(ctx, p); err != nil {
			return err
		}
		if in.StockInicial == 0 {
			return nil
		}
		mov, err := RegistrarMovimiento(ctx, repos, Movimiento{
			ProductoID: p.ID,
			Tipo:       entity.MovimientoEntrada,
			Cantidad:   in.StockInicial,
			Motivo:     MotivoStockInicial,
			UserID:     userID,
		})
		if err != nil {
			return err
		}
		p.StockActual = mov.StockResultante
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toProductoResponse(p)
	return &out, nil
}

// GetByID devuelve el producto o ErrNotFound.
func (uc *ProductoUseCase) GetByID(ctx context.Context, id string) (*dto.ProductoResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := toProductoResponse(p)
	return &out, nil
}

// List lista productos con paginación.
func (uc *ProductoUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductoListResponse, error) {
	limit, offset = dto.NormalizePage(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return toProductoList(list, limit, offset), nil
}

// ListBajoStock productos con stock_actual <= stock_minimo.
func (uc *ProductoUseCase) ListBajoStock(ctx context.Context) (*dto.ProductoListResponse, error) {
	list, err := uc.repo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	out := toProductoList(list, len(list), 0)
	for i := range out.Items {
		out.Items[i].ReposicionSugerida = inventario.ReposicionSugerida(out.Items[i].StockActual, out.Items[i].StockMinimo)
	}
	return out, nil
}

// Update modifica los datos descriptivos. El stock solo cambia con movimientos.
func (uc *ProductoUseCase) Update(ctx context.Context, id string, in dto.UpdateProductoRequest) (*dto.ProductoResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre != nil {
		p.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		p.Descripcion = *in.Descripcion
	}
	if in.Precio != nil {
		if in.Precio.IsNegative() {
			return nil, domain.NewValidationError("precio", "no puede ser negativo")
		}
		p.Precio = *in.Precio
	}
	if in.StockMinimo != nil {
		p.StockMinimo = *in.StockMinimo
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	out := toProductoResponse(p)
	return &out, nil
}

func toProductoList(list []*entity.Producto, limit, offset int) *dto.ProductoListResponse {
	out := &dto.ProductoListResponse{
		Items: make([]dto.ProductoResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, toProductoResponse(p))
	}
	return out
}

func toProductoResponse(p *entity.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:          p.ID,
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		StockActual: p.StockActual,
		StockMinimo: p.StockMinimo,
		BajoStock:   p.BajoStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
