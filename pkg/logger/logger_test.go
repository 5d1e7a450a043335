package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Turismo-api/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("verboso"))
}

func TestNewWithWriter_JSONConServicio(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "info", Service: "turismo-api"}, &buf)

	l.Debug().Msg("no sale")
	l.Info().Str("reserva_id", "r1").Msg("reserva creada")

	var linea map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &linea), "una sola línea JSON: el debug se descarta")
	assert.Equal(t, "turismo-api", linea["service"])
	assert.Equal(t, "r1", linea["reserva_id"])
	assert.Equal(t, "reserva creada", linea["message"])
}
