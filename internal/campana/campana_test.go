package campana

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/testutil"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevoRouter(t *testing.T) (*mux.Router, *Handler) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewHandler(testutil.NuevaDB(t, &Campana{}), logger)

	r := mux.NewRouter()
	r.HandleFunc("/campanas", h.Crear).Methods(http.MethodPost)
	r.HandleFunc("/campanas/{id}", h.Actualizar).Methods(http.MethodPut)
	r.HandleFunc("/clientes/{id}/campanas", h.ListarPorCliente).Methods(http.MethodGet)
	return r, h
}

func TestCrear_ValidaRangoFechas(t *testing.T) {
	r, _ := nuevoRouter(t)

	casos := []struct {
		nombre string
		body   string
		want   int
	}{
		{"ok", `{"nombre":"Verano","clienteId":1,"fechaInicio":"2025-01-01T00:00:00Z","fechaFin":"2025-02-28T00:00:00Z","presupuesto":1000}`, http.StatusCreated},
		{"mismo día", `{"nombre":"Flash","clienteId":1,"fechaInicio":"2025-03-01T00:00:00Z","fechaFin":"2025-03-01T00:00:00Z"}`, http.StatusCreated},
		{"fin antes de inicio", `{"nombre":"Mal","clienteId":1,"fechaInicio":"2025-03-01T00:00:00Z","fechaFin":"2025-02-01T00:00:00Z"}`, http.StatusBadRequest},
		{"sin cliente", `{"nombre":"Mal","fechaInicio":"2025-03-01T00:00:00Z","fechaFin":"2025-04-01T00:00:00Z"}`, http.StatusBadRequest},
		{"estado desconocido", `{"nombre":"Mal","clienteId":1,"fechaInicio":"2025-03-01T00:00:00Z","fechaFin":"2025-04-01T00:00:00Z","estado":"Otra"}`, http.StatusBadRequest},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/campanas", bytes.NewBufferString(c.body)))
			assert.Equal(t, c.want, rr.Code, rr.Body.String())
		})
	}
}

func TestListarPorCliente(t *testing.T) {
	r, h := nuevoRouter(t)
	inicio := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, clienteID := range []uint{1, 2, 1} {
		c := Campana{Nombre: "C", ClienteID: clienteID, FechaInicio: inicio.AddDate(0, i, 0), FechaFin: inicio.AddDate(0, i+1, 0), Estado: EstadoActiva}
		require.NoError(t, h.Repository.Crear(h.DB, &c))
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/clientes/1/campanas", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var list []Campana
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.True(t, list[0].FechaInicio.After(list[1].FechaInicio))
}

func TestActualizar_NoEncontrada(t *testing.T) {
	r, _ := nuevoRouter(t)
	body := `{"nombre":"X","clienteId":1,"fechaInicio":"2025-01-01T00:00:00Z","fechaFin":"2025-01-02T00:00:00Z"}`
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/campanas/42", bytes.NewBufferString(body)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
