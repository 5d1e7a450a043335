package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	VentaPendiente = "PENDIENTE"
	VentaPagada    = "PAGADA"
	VentaAnulada   = "ANULADA"
)

// Venta cabecera de una venta de productos.
type Venta struct {
	ID        string
	ClienteID *string
	UserID    string
	Fecha     time.Time
	Total     decimal.Decimal
	Estado    string
	CreatedAt time.Time
	UpdatedAt time.Time
	Detalles  []*DetalleVenta
}

// DetalleVenta línea de una venta.
type DetalleVenta struct {
	ID             string
	VentaID        string
	ProductoID     string
	Cantidad       int
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}
