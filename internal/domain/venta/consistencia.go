// Package venta reglas de consistencia entre ventas y pagos.
package venta

import (
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
)

// Consistencia resultado de auditar una venta contra sus pagos.
type Consistencia struct {
	Consistente    bool
	EstadoEsperado string
	Detalle        string
}

// TienePagoAprobado indica si alguno de los pagos está aprobado.
func TienePagoAprobado(pagos []*entity.Pago) bool {
	for _, p := range pagos {
		if p != nil && p.Estado == entity.PagoAprobado {
			return true
		}
	}
	return false
}

// PagosAprobados cuenta los pagos aprobados.
func PagosAprobados(pagos []*entity.Pago) int {
	n := 0
	for _, p := range pagos {
		if p != nil && p.Estado == entity.PagoAprobado {
			n++
		}
	}
	return n
}

// ValidarConsistenciaConPagos verifica que el estado de la venta coincida con la
// existencia de un pago aprobado: PAGADA si y solo si hay pago aprobado, y nunca más de uno.
// Es una auditoría de lectura; no corrige nada.
func ValidarConsistenciaConPagos(v *entity.Venta, pagos []*entity.Pago) Consistencia {
	aprobados := PagosAprobados(pagos)
	if aprobados > 1 {
		return Consistencia{
			EstadoEsperado: entity.VentaPagada,
			Detalle:        "venta con más de un pago aprobado",
		}
	}
	aprobado := aprobados == 1
	switch v.Estado {
	case entity.VentaPagada:
		if !aprobado {
			return Consistencia{
				EstadoEsperado: entity.VentaPendiente,
				Detalle:        "venta marcada como pagada sin pago aprobado",
			}
		}
	case entity.VentaAnulada:
		if aprobado {
			return Consistencia{
				EstadoEsperado: entity.VentaPagada,
				Detalle:        "venta anulada con un pago aprobado",
			}
		}
	default:
		if aprobado {
			return Consistencia{
				EstadoEsperado: entity.VentaPagada,
				Detalle:        "pago aprobado pero la venta no está marcada como pagada",
			}
		}
	}
	return Consistencia{Consistente: true, EstadoEsperado: v.Estado}
}
