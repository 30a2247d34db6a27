package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PORT", "abc")
	t.Setenv("COMISION_DEFAULT", "")
	t.Setenv("MARGEN_MINIMO", "12.5")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("ZONA_HORARIA", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, uint(5432), cfg.DBPort)
	assert.Equal(t, 15.0, cfg.ComisionDefault)
	assert.Equal(t, 12.5, cfg.MargenMinimo)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "America/Santiago", cfg.ZonaHoraria)
}

func TestParseCSV(t *testing.T) {
	assert.Nil(t, ParseCSV(""))
	assert.Equal(t, []string{"x"}, ParseCSV(" x ,"))
}

func TestLogError_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug")
	logger.SetOutput(&buf)

	LogError(logger, "orden", "Crear", "insert", map[string]int{"planId": 3}, errors.New("falló"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "orden", entry["module"])
	assert.Equal(t, "Crear", entry["funcName"])
	assert.Equal(t, "falló", entry["msg"])
	assert.NotNil(t, entry["data"])
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, NewLogger("verboso").GetLevel())
}
