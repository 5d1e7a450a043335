package reserva_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/reserva"
)

func TestCuposDisponibles_TourLleno(t *testing.T) {
	reservados := []entity.CupoReservado{{ReservaID: "r1", EstadoReserva: entity.ReservaConfirmada, Cupos: 10}}
	assert.Equal(t, 0, reserva.CuposDisponibles(10, reservados))
}

func TestCuposDisponibles_RechazadasLiberan(t *testing.T) {
	reservados := []entity.CupoReservado{
		{ReservaID: "r1", EstadoReserva: entity.ReservaConfirmada, Cupos: 3},
		{ReservaID: "r2", EstadoReserva: entity.ReservaRechazada, Cupos: 4},
		{ReservaID: "r3", EstadoReserva: "cancelada", Cupos: 2},
		{ReservaID: "r4", EstadoReserva: "pendiente", Cupos: 1},
	}
	assert.Equal(t, 4, reserva.CuposReservados(reservados))
	assert.Equal(t, 6, reserva.CuposDisponibles(10, reservados))
}

func TestCuposDisponibles_EstadoDesconocidoOcupa(t *testing.T) {
	reservados := []entity.CupoReservado{{ReservaID: "r1", EstadoReserva: "???", Cupos: 2}}
	assert.Equal(t, 3, reserva.CuposDisponibles(5, reservados))
}

func TestCuposDisponibles_AcotadoACero(t *testing.T) {
	reservados := []entity.CupoReservado{{ReservaID: "r1", EstadoReserva: entity.ReservaConfirmada, Cupos: 12}}
	assert.Equal(t, 0, reserva.CuposDisponibles(10, reservados))
	assert.Equal(t, 0, reserva.CuposDisponibles(0, nil))
}

func TestCuposDisponibles_Rango(t *testing.T) {
	estados := []string{
		entity.ReservaPendiente, entity.ReservaConfirmada, entity.ReservaRechazada,
		entity.ReservaReprogramada, entity.ReservaFinalizada, "cancelada", "confirmado",
	}
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		cupoMax := 1 + rnd.Intn(30)
		var reservados []entity.CupoReservado
		for j := rnd.Intn(12); j > 0; j-- {
			reservados = append(reservados, entity.CupoReservado{
				EstadoReserva: estados[rnd.Intn(len(estados))],
				Cupos:         rnd.Intn(8),
			})
		}
		d := reserva.CuposDisponibles(cupoMax, reservados)
		assert.GreaterOrEqual(t, d, 0)
		assert.LessOrEqual(t, d, cupoMax)
	}
}

func TestEstadoTourTrasCambio(t *testing.T) {
	assert.Equal(t, entity.TourAgotado, reserva.EstadoTourTrasCambio(entity.TourDisponible, 0))
	assert.Equal(t, entity.TourDisponible, reserva.EstadoTourTrasCambio(entity.TourDisponible, 3))
	assert.Equal(t, entity.TourDisponible, reserva.EstadoTourTrasCambio(entity.TourAgotado, 1))
	assert.Equal(t, entity.TourCancelado, reserva.EstadoTourTrasCambio(entity.TourCancelado, 0))
	assert.Equal(t, entity.TourSuspendido, reserva.EstadoTourTrasCambio(entity.TourSuspendido, 5))
}
