package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un tour.
const (
	TourDisponible   = "DISPONIBLE"
	TourAgotado      = "AGOTADO"
	TourEnCurso      = "EN_CURSO"
	TourCompletado   = "COMPLETADO"
	TourCancelado    = "CANCELADO"
	TourSuspendido   = "SUSPENDIDO"
	TourReprogramado = "REPROGRAMADO"
)

// EstadosTour lista los estados válidos de un tour.
var EstadosTour = []string{
	TourDisponible, TourAgotado, TourEnCurso, TourCompletado,
	TourCancelado, TourSuspendido, TourReprogramado,
}

// EsEstadoTourValido indica si s es uno de los estados de tour.
func EsEstadoTourValido(s string) bool {
	for _, e := range EstadosTour {
		if e == s {
			return true
		}
	}
	return false
}

// Tour representa un tour ofrecido por la agencia. CuposDisponibles no se persiste:
// se calcula a partir de los detalles de reserva (ver domain/reserva).
type Tour struct {
	ID           string
	Nombre       string
	Descripcion  string
	CupoMin      int
	CupoMax      int
	FechaSalida  time.Time
	FechaRegreso time.Time
	Precio       decimal.Decimal
	Estado       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
