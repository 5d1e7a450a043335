package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto artículo vendible de la agencia (souvenirs, equipo, etc.).
// StockActual es un caché materializado del libro de inventario: solo cambia
// a través de un movimiento Inventario.
type Producto struct {
	ID          string
	Codigo      string // único
	Nombre      string
	Descripcion string
	Precio      decimal.Decimal
	StockActual int
	StockMinimo int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BajoStock indica si el producto está en o por debajo de su stock mínimo.
func (p *Producto) BajoStock() bool {
	return p.StockActual <= p.StockMinimo
}
