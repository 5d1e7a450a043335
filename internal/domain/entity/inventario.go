package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovimientoEntrada = "ENTRADA"
	MovimientoSalida  = "SALIDA"
	MovimientoAjuste  = "AJUSTE"
)

// Inventario fila del libro de inventario (append-only). Cantidad es positiva para
// ENTRADA/SALIDA; en AJUSTE lleva signo.
type Inventario struct {
	ID              string
	ProductoID      string
	TipoMovimiento  string
	Cantidad        int
	StockAnterior   int
	StockResultante int
	Motivo          string
	Referencia      string // venta u otro documento origen (opcional)
	UserID          string
	FechaMovimiento time.Time
}
