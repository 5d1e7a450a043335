package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductoRequest entrada para crear un producto. StockInicial queda registrado
// como ENTRADA en el libro de inventario.
type CreateProductoRequest struct {
	Codigo       string          `json:"codigo" validate:"required,max=60"`
	Nombre       string          `json:"nombre" validate:"required,max=200"`
	Descripcion  string          `json:"descripcion"`
	Precio       decimal.Decimal `json:"precio"`
	StockInicial int             `json:"stock_inicial" validate:"gte=0"`
	StockMinimo  int             `json:"stock_minimo" validate:"gte=0"`
}

// UpdateProductoRequest campos editables. El stock no es editable por aquí.
type UpdateProductoRequest struct {
	Nombre      *string          `json:"nombre,omitempty" validate:"omitempty,max=200"`
	Descripcion *string          `json:"descripcion,omitempty"`
	Precio      *decimal.Decimal `json:"precio,omitempty"`
	StockMinimo *int             `json:"stock_minimo,omitempty" validate:"omitempty,gte=0"`
}

// ProductoResponse salida de producto. ReposicionSugerida solo viene en el listado de bajo stock.
type ProductoResponse struct {
	ID                 string          `json:"id"`
	Codigo             string          `json:"codigo"`
	Nombre             string          `json:"nombre"`
	Descripcion        string          `json:"descripcion"`
	Precio             decimal.Decimal `json:"precio"`
	StockActual        int             `json:"stock_actual"`
	StockMinimo        int             `json:"stock_minimo"`
	BajoStock          bool            `json:"bajo_stock"`
	ReposicionSugerida int             `json:"reposicion_sugerida,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ProductoListResponse listado paginado.
type ProductoListResponse struct {
	Items []ProductoResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ActualizarStockRequest body para POST /api/productos/:id/stock.
// StockResultante es el valor que el cliente calculó; el servidor lo verifica.
type ActualizarStockRequest struct {
	TipoMovimiento  string `json:"tipo_movimiento" validate:"required,oneof=ENTRADA SALIDA AJUSTE"`
	Cantidad        int    `json:"cantidad"`
	Motivo          string `json:"motivo" validate:"required,max=255"`
	StockResultante *int   `json:"stock_resultante" validate:"required"`
}

// MovimientoResponse fila del libro de inventario.
type MovimientoResponse struct {
	ID              string    `json:"id"`
	ProductoID      string    `json:"producto_id"`
	TipoMovimiento  string    `json:"tipo_movimiento"`
	Cantidad        int       `json:"cantidad"`
	StockAnterior   int       `json:"stock_anterior"`
	StockResultante int       `json:"stock_resultante"`
	Motivo          string    `json:"motivo"`
	Referencia      string    `json:"referencia,omitempty"`
	UserID          string    `json:"user_id"`
	FechaMovimiento time.Time `json:"fecha_movimiento"`
}

// KardexResponse movimientos del producto y conciliación contra el stock cacheado.
type KardexResponse struct {
	Producto    ProductoResponse     `json:"producto"`
	Movimientos []MovimientoResponse `json:"movimientos"`
	SumaLibro   int                  `json:"suma_libro"`
	Consistente bool                 `json:"consistente"`
}
