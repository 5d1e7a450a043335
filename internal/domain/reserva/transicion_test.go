package reserva_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Turismo-api/internal/domain"
	"github.com/jhoicas/Turismo-api/internal/domain/entity"
	"github.com/jhoicas/Turismo-api/internal/domain/reserva"
)

func TestNormalizarEstado_GrafiasHistoricas(t *testing.T) {
	casos := map[string]string{
		"PENDIENTE":       entity.ReservaPendiente,
		"pendiente":       entity.ReservaPendiente,
		" En espera ":     entity.ReservaPendiente,
		"Confirmada":      entity.ReservaConfirmada,
		"confirmado":      entity.ReservaConfirmada,
		"cancelada":       entity.ReservaRechazada,
		"Rechazádo":       entity.ReservaRechazada,
		"re-programada":   entity.ReservaReprogramada,
		"REPROGRAMADO":    entity.ReservaReprogramada,
		"finalizado":      entity.ReservaFinalizada,
		"Completada":      entity.ReservaFinalizada,
		"cancelled":       entity.ReservaRechazada,
		"confirmada\t":    entity.ReservaConfirmada,
		"RE_PROGRAMADA":   entity.ReservaReprogramada,
		"Finalizada.":     entity.ReservaFinalizada,
		"pendiente ":      entity.ReservaPendiente,
		"CONFIRMADA     ": entity.ReservaConfirmada,
	}
	for entrada, esperado := range casos {
		got, ok := reserva.NormalizarEstado(entrada)
		assert.True(t, ok, "grafía %q debe reconocerse", entrada)
		assert.Equal(t, esperado, got, "grafía %q", entrada)
	}

	_, ok := reserva.NormalizarEstado("en_transito")
	assert.False(t, ok)
	_, ok = reserva.NormalizarEstado("")
	assert.False(t, ok)
}

func TestValidarTransicion_ListaPermitida(t *testing.T) {
	estados := []string{
		entity.ReservaPendiente, entity.ReservaConfirmada, entity.ReservaRechazada,
		entity.ReservaReprogramada, entity.ReservaFinalizada,
	}
	permitidas := map[string]map[string]bool{
		reserva.AccionConfirmar:   {entity.ReservaPendiente: true, entity.ReservaReprogramada: true},
		reserva.AccionRechazar:    {entity.ReservaPendiente: true, entity.ReservaReprogramada: true},
		reserva.AccionReprogramar: {entity.ReservaPendiente: true, entity.ReservaConfirmada: true, entity.ReservaReprogramada: true},
		reserva.AccionFinalizar:   {entity.ReservaConfirmada: true, entity.ReservaReprogramada: true},
	}
	for accion, desde := range permitidas {
		tr, ok := reserva.TransicionDe(accion)
		require.True(t, ok)
		for _, estado := range estados {
			hacia, err := reserva.ValidarTransicion(accion, estado)
			if desde[estado] {
				assert.NoError(t, err, "%s desde %s", accion, estado)
				assert.Equal(t, tr.Hacia, hacia)
				continue
			}
			require.Error(t, err, "%s desde %s debe rechazarse", accion, estado)
			assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
			var terr *domain.TransitionError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, accion, terr.Accion)
			assert.Equal(t, estado, terr.EstadoActual)
		}
	}
}

func TestValidarTransicion_GrafiaMinuscula(t *testing.T) {
	hacia, err := reserva.ValidarTransicion(reserva.AccionConfirmar, "pendiente")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaConfirmada, hacia)

	hacia, err = reserva.ValidarTransicion(reserva.AccionFinalizar, "Reprogramado")
	require.NoError(t, err)
	assert.Equal(t, entity.ReservaFinalizada, hacia)

	_, err = reserva.ValidarTransicion(reserva.AccionConfirmar, "cancelada")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestValidarTransicion_EstadoDesconocido(t *testing.T) {
	_, err := reserva.ValidarTransicion(reserva.AccionConfirmar, "ARCHIVADA")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestValidarTransicion_AccionDesconocida(t *testing.T) {
	_, err := reserva.ValidarTransicion("borrar", entity.ReservaPendiente)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEsTerminal(t *testing.T) {
	assert.True(t, reserva.EsTerminal("rechazada"))
	assert.True(t, reserva.EsTerminal("Cancelada"))
	assert.True(t, reserva.EsTerminal(entity.ReservaFinalizada))
	assert.False(t, reserva.EsTerminal(entity.ReservaPendiente))
	assert.False(t, reserva.EsTerminal(entity.ReservaReprogramada))
	assert.False(t, reserva.EsTerminal("desconocido"))
}
