package proveedor

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

func TestProveedorHandler(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewHandler(testutil.NuevaDB(t, &Proveedor{}), logger)

	r := mux.NewRouter()
	r.HandleFunc("/proveedores", h.Listar).Methods(http.MethodGet)
	r.HandleFunc("/proveedores", h.Crear).Methods(http.MethodPost)
	r.HandleFunc("/proveedores/{id}", h.Actualizar).Methods(http.MethodPut)

	hacer := func(metodo, ruta, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(metodo, ruta, bytes.NewBufferString(body)))
		return rr
	}

	require.Equal(t, http.StatusCreated, hacer(http.MethodPost, "/proveedores", `{"nombre":"Radio Uno","rut":"1-1"}`).Code)
	require.Equal(t, http.StatusCreated, hacer(http.MethodPost, "/proveedores", `{"nombre":"Canal Dos","rut":"2-2","activo":false}`).Code)
	assert.Equal(t, http.StatusConflict, hacer(http.MethodPost, "/proveedores", `{"nombre":"Copia","rut":"1-1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, hacer(http.MethodPost, "/proveedores", `{"nombre":"Sin rut"}`).Code)

	var list []Proveedor
	require.NoError(t, json.Unmarshal(hacer(http.MethodGet, "/proveedores?activos=true", "").Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Radio Uno", list[0].Nombre)

	require.Equal(t, http.StatusOK, hacer(http.MethodPut, "/proveedores/2", `{"nombre":"Canal Dos","rut":"2-2","activo":true}`).Code)
	require.NoError(t, json.Unmarshal(hacer(http.MethodGet, "/proveedores?activos=true", "").Body.Bytes(), &list))
	assert.Len(t, list, 2)
}
