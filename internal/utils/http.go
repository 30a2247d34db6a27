package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

const LayoutFecha = "2006-01-02"

// ParseID lee una variable de ruta numérica.
func ParseID(r *http.Request, nombre string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[nombre], 10, 64)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}

// QueryUint lee un parámetro de query opcional; 0 si no viene o es inválido.
func QueryUint(r *http.Request, nombre string) uint {
	v, err := strconv.ParseUint(r.URL.Query().Get(nombre), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// QueryFecha lee un parámetro "YYYY-MM-DD" como medianoche en Zona; devuelve def
// si viene vacío.
func QueryFecha(r *http.Request, nombre string, def time.Time) (time.Time, error) {
	v := r.URL.Query().Get(nombre)
	if v == "" {
		return def, nil
	}
	return time.ParseInLocation(LayoutFecha, v, Zona)
}

// WriteJSON escribe la respuesta con el status indicado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
