package reserva

import "github.com/jhoicas/Turismo-api/internal/domain/entity"

// OcupaCupos indica si una reserva en este estado consume cupos del tour.
// Solo las rechazadas (incluye grafías "cancelada") liberan cupos; un estado
// desconocido se cuenta como ocupado.
func OcupaCupos(estado string) bool {
	e, ok := NormalizarEstado(estado)
	if !ok {
		return true
	}
	return e != entity.ReservaRechazada
}

// CuposReservados suma los cupos de las reservas que ocupan capacidad.
func CuposReservados(reservados []entity.CupoReservado) int {
	total := 0
	for _, r := range reservados {
		if r.Cupos > 0 && OcupaCupos(r.EstadoReserva) {
			total += r.Cupos
		}
	}
	return total
}

// CuposDisponibles = cupo_max - cupos reservados, acotado a [0, cupo_max].
func CuposDisponibles(cupoMax int, reservados []entity.CupoReservado) int {
	if cupoMax <= 0 {
		return 0
	}
	disponibles := cupoMax - CuposReservados(reservados)
	if disponibles < 0 {
		return 0
	}
	if disponibles > cupoMax {
		return cupoMax
	}
	return disponibles
}

// EstadoTourTrasCambio ajusta DISPONIBLE/AGOTADO según los cupos restantes.
// Los demás estados del tour no se tocan.
func EstadoTourTrasCambio(estadoTour string, disponibles int) string {
	switch {
	case estadoTour == entity.TourDisponible && disponibles == 0:
		return entity.TourAgotado
	case estadoTour == entity.TourAgotado && disponibles > 0:
		return entity.TourDisponible
	}
	return estadoTour
}
