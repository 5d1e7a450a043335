package dto

import "github.com/shopspring/decimal"

// IniciarPagoResponse datos para abrir el checkout de Wompi.
type IniciarPagoResponse struct {
	PagoID          string          `json:"pago_id"`
	Referencia      string          `json:"referencia"`
	Monto           decimal.Decimal `json:"monto"`
	MontoEnCentavos int64           `json:"amount_in_cents"`
	Moneda          string          `json:"currency"`
	PublicKey       string          `json:"public_key"`
	FirmaIntegridad string          `json:"signature_integrity"`
}

// WebhookResultado respuesta del webhook.
type WebhookResultado struct {
	Procesado bool   `json:"procesado"`
	Detalle   string `json:"detalle"`
}

// IniciarPagoRequest body para POST /api/pagos. Debe venir exactamente uno de los dos ids.
type IniciarPagoRequest struct {
	VentaID   string `json:"venta_id" validate:"required_without=ReservaID,excluded_with=ReservaID"`
	ReservaID string `json:"reserva_id" validate:"required_without=VentaID,excluded_with=VentaID"`
}
