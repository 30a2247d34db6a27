package medio

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AgenciaMedios/api-agencia/internal/testutil"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediosYSoportes(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewHandler(testutil.NuevaDB(t, &Medio{}, &Soporte{}), logger)

	r := mux.NewRouter()
	r.HandleFunc("/medios", h.CrearMedio).Methods(http.MethodPost)
	r.HandleFunc("/medios/{id}", h.BuscarMedio).Methods(http.MethodGet)
	r.HandleFunc("/medios/{id}/soportes", h.ListarSoportes).Methods(http.MethodGet)
	r.HandleFunc("/soportes", h.CrearSoporte).Methods(http.MethodPost)
	r.HandleFunc("/soportes", h.ListarSoportes).Methods(http.MethodGet)

	hacer := func(metodo, ruta, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(metodo, ruta, bytes.NewBufferString(body)))
		return rr
	}

	require.Equal(t, http.StatusCreated, hacer(http.MethodPost, "/medios", `{"nombre":"Televisión","codigo":"TV"}`).Code)
	require.Equal(t, http.StatusCreated, hacer(http.MethodPost, "/medios", `{"nombre":"Radio","codigo":"RD"}`).Code)
	assert.Equal(t, http.StatusConflict, hacer(http.MethodPost, "/medios", `{"nombre":"Tele","codigo":"TV"}`).Code)

	require.Equal(t, http.StatusCreated, hacer(http.MethodPost, "/soportes", `{"nombre":"Canal 13","medioId":1,"proveedorId":7}`).Code)
	require.Equal(t, http.StatusCreated, hacer(http.MethodPost, "/soportes", `{"nombre":"Mega","medioId":1}`).Code)
	require.Equal(t, http.StatusCreated, hacer(http.MethodPost, "/soportes", `{"nombre":"Radio Bío Bío","medioId":2}`).Code)
	assert.Equal(t, http.StatusNotFound, hacer(http.MethodPost, "/soportes", `{"nombre":"Huérfano","medioId":99}`).Code)

	var soportes []Soporte
	require.NoError(t, json.Unmarshal(hacer(http.MethodGet, "/medios/1/soportes", "").Body.Bytes(), &soportes))
	assert.Len(t, soportes, 2)

	require.NoError(t, json.Unmarshal(hacer(http.MethodGet, "/soportes?medioId=2", "").Body.Bytes(), &soportes))
	require.Len(t, soportes, 1)
	assert.Equal(t, "Radio Bío Bío", soportes[0].Nombre)

	var m Medio
	require.NoError(t, json.Unmarshal(hacer(http.MethodGet, "/medios/1", "").Body.Bytes(), &m))
	assert.Len(t, m.Soportes, 2)
}
