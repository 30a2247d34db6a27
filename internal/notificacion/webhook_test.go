package notificacion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhook_Enviar(t *testing.T) {
	var recibido Evento
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&recibido))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	ev := Evento{Tipo: "orden.emitida", Referencia: "ORD-2025-001-1", Mensaje: "Orden emitida", Fecha: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, NewWebhook(srv.URL).Enviar(context.Background(), ev))
	assert.Equal(t, ev.Referencia, recibido.Referencia)
	assert.Equal(t, ev.Tipo, recibido.Tipo)
}

func TestWebhook_ErrorYDeshabilitado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Error(t, NewWebhook(srv.URL).Enviar(context.Background(), Evento{Tipo: "x"}))
	assert.NoError(t, NewWebhook("").Enviar(context.Background(), Evento{Tipo: "x"}))

	var nilWebhook *Webhook
	assert.NoError(t, nilWebhook.Enviar(context.Background(), Evento{Tipo: "x"}))
}
