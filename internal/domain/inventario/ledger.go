// Package inventario reglas puras del libro de inventario (kardex).
package inventario

import (
	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// Delta devuelve la variación con signo que produce un movimiento.
// ENTRADA y SALIDA exigen cantidad positiva; AJUSTE acepta signo pero no cero.
func Delta(tipo string, cantidad int) (int, error) {
	switch tipo {
	case entity.MovimientoEntrada:
		if cantidad <= 0 {
			return 0, domain.NewValidationError("cantidad", "debe ser mayor que cero")
		}
		return cantidad, nil
	case entity.MovimientoSalida:
		if cantidad <= 0 {
			return 0, domain.NewValidationError("cantidad", "debe ser mayor que cero")
		}
		return -cantidad, nil
	case entity.MovimientoAjuste:
		if cantidad == 0 {
			return 0, domain.NewValidationError("cantidad", "el ajuste no puede ser cero")
		}
		return cantidad, nil
	}
	return 0, domain.NewValidationError("tipo_movimiento", "debe ser ENTRADA, SALIDA o AJUSTE")
}

// Aplicar calcula el stock resultante de aplicar el movimiento sobre stockActual.
// Un resultado negativo devuelve domain.ErrInsufficientStock.
func Aplicar(stockActual int, tipo string, cantidad int) (int, error) {
	d, err := Delta(tipo, cantidad)
	if err != nil {
		return 0, err
	}
	resultante := stockActual + d
	if resultante < 0 {
		return 0, domain.ErrInsufficientStock
	}
	return resultante, nil
}

// SumaLibro suma los deltas de todos los movimientos del libro.
// Con el stock inicial registrado como ENTRADA, debe coincidir con stock_actual.
func SumaLibro(movimientos []*entity.Inventario) int {
	total := 0
	for _, m := range movimientos {
		d, err := Delta(m.TipoMovimiento, m.Cantidad)
		if err != nil {
			continue
		}
		total += d
	}
	return total
}

// NuevoMovimiento arma la fila del libro ya validada contra el stock actual.
func NuevoMovimiento(p *entity.Producto, tipo string, cantidad int, motivo, referencia, userID string) (*entity.Inventario, error) {
	resultante, err := Aplicar(p.StockActual, tipo, cantidad)
	if err != nil {
		return nil, err
	}
	return &entity.Inventario{
		ProductoID:      p.ID,
		TipoMovimiento:  tipo,
		Cantidad:        cantidad,
		StockAnterior:   p.StockActual,
		StockResultante: resultante,
		Motivo:          motivo,
		Referencia:      referencia,
		UserID:          userID,
	}, nil
}

// ReposicionSugerida unidades a pedir para llevar el producto a 1.5 veces su stock mínimo.
// Cero si el stock actual ya alcanza ese nivel.
func ReposicionSugerida(stockActual, stockMinimo int) int {
	ideal := (stockMinimo*3 + 1) / 2
	if stockActual >= ideal {
		return 0
	}
	return ideal - stockActual
}
