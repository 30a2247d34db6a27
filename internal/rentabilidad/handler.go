package rentabilidad

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"gorm.io/gorm"
)

type cambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=Nueva Revisada Descartada"`
}

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// GET /ordenes/{id}/rentabilidad
func (h *Handler) Orden(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	d, err := h.Service.RentabilidadOrden(r.Context(), id)
	if err != nil {
		h.responderError(w, "Orden", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, d)
}

// POST /rentabilidad/simular
func (h *Handler) Simular(w http.ResponseWriter, r *http.Request) {
	var e Entrada
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if e.Precio.IsNegative() || e.Costo.IsNegative() || e.TasaComision.IsNegative() || e.TasaBonificacion.IsNegative() {
		http.Error(w, "los valores no pueden ser negativos", http.StatusBadRequest)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Calcular(e))
}

// POST /rentabilidad/oportunidades/detectar
func (h *Handler) Detectar(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.DetectarOportunidades(r.Context())
	if err != nil {
		h.responderError(w, "Detectar", nil, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

// GET /rentabilidad/oportunidades?estado=
func (h *Handler) ListarOportunidades(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Oportunidades.Listar(h.Service.DB.WithContext(r.Context()), r.URL.Query().Get("estado"))
	if err != nil {
		h.responderError(w, "ListarOportunidades", nil, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// PATCH /rentabilidad/oportunidades/{id}/estado
func (h *Handler) CambiarEstado(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	var req cambiarEstadoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := h.Service.Oportunidades.CambiarEstado(h.Service.DB.WithContext(r.Context()), id, req.Estado)
	if err != nil {
		h.responderError(w, "CambiarEstado", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) responderError(w http.ResponseWriter, funcName string, data any, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Registro no encontrado", http.StatusNotFound)
	case errors.Is(err, ErrEstadoOportunidad):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		config.LogError(h.Service.Logger, "rentabilidad", funcName, "service", data, err)
		http.Error(w, "Error al calcular rentabilidad", http.StatusInternalServerError)
	}
}
