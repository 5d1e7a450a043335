package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VentaItemRequest línea de venta. Sin precio_unitario se usa el precio del producto.
type VentaItemRequest struct {
	ProductoID     string           `json:"producto_id" validate:"required"`
	Cantidad       int              `json:"cantidad" validate:"gte=1"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
}

// CrearVentaRequest body para POST /api/ventas.
type CrearVentaRequest struct {
	ClienteID *string            `json:"cliente_id,omitempty"`
	Items     []VentaItemRequest `json:"items" validate:"required,min=1,dive"`
}

// DetalleVentaResponse línea de venta.
type DetalleVentaResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// ConsistenciaResponse resultado de la auditoría venta/pagos.
type ConsistenciaResponse struct {
	Consistente       bool   `json:"consistente"`
	TienePagoAprobado bool   `json:"tiene_pago_aprobado"`
	EstadoEsperado    string `json:"estado_esperado"`
	Detalle           string `json:"detalle,omitempty"`
}

// VentaResponse salida de venta con su auditoría de pagos.
type VentaResponse struct {
	ID           string                 `json:"id"`
	ClienteID    *string                `json:"cliente_id"`
	UserID       string                 `json:"user_id"`
	Fecha        time.Time              `json:"fecha"`
	Total        decimal.Decimal        `json:"total"`
	Estado       string                 `json:"estado"`
	Detalles     []DetalleVentaResponse `json:"detalles,omitempty"`
	Consistencia ConsistenciaResponse   `json:"consistencia"`
}

// VentaListResponse listado paginado.
type VentaListResponse struct {
	Items          []VentaResponse `json:"items"`
	Inconsistentes int             `json:"inconsistentes"`
	Page           PageResponse    `json:"page"`
}
