package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Billing-api/pkg/logger"
)

func TestNew_JSONConCamposFijos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Service: "billing-api", Out: &buf})

	l.Named("billing").Info().Str("bill_number", "BILL-001").Msg("factura creada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "billing-api", entry["service"])
	assert.Equal(t, "billing", entry["component"])
	assert.Equal(t, "BILL-001", entry["bill_number"])
	assert.Equal(t, "factura creada", entry["message"])
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf})

	l.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("sí debe salir")
	assert.Contains(t, buf.String(), "sí debe salir")
}

func TestOrNop_NilNoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.OrNop(nil).Error().Msg("descartado")
	})
}
