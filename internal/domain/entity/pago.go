package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pago.
const (
	PagoPendiente = "PENDIENTE"
	PagoAprobado  = "APROBADO"
	PagoRechazado = "RECHAZADO"
	PagoAnulado   = "ANULADO"
	PagoError     = "ERROR"
)

// Pago intento de pago a través de la pasarela (Wompi) para una venta o una reserva.
// Exactamente uno de VentaID o ReservaID está definido.
type Pago struct {
	ID            string
	VentaID       *string
	ReservaID     *string
	Referencia    string // referencia única enviada a la pasarela
	TransaccionID string // id de la transacción en la pasarela, vacío hasta el primer evento
	Monto         decimal.Decimal
	Moneda        string
	Estado        string
	Metodo        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
