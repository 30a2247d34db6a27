package orden

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/cache"
	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"gorm.io/gorm"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// POST /ordenes
func (h *Handler) Emitir(w http.ResponseWriter, r *http.Request) {
	var req EmitirRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := h.Service.Emitir(r.Context(), req)
	if err != nil {
		h.responderError(w, "Emitir", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}

// GET /ordenes?clienteId=&planId=&estado=&desde=&hasta=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	f := Filtro{
		ClienteID: utils.QueryUint(r, "clienteId"),
		PlanID:    utils.QueryUint(r, "planId"),
		Estado:    r.URL.Query().Get("estado"),
	}
	desde, err := utils.QueryFecha(r, "desde", time.Time{})
	if err != nil {
		http.Error(w, "desde inválido (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	hasta, err := utils.QueryFecha(r, "hasta", time.Time{})
	if err != nil {
		http.Error(w, "hasta inválido (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	if !desde.IsZero() {
		f.Desde = &desde
	}
	if !hasta.IsZero() {
		fin := hasta.AddDate(0, 0, 1)
		f.Hasta = &fin
	}

	list, err := h.Service.Repository.Listar(h.Service.DB.WithContext(r.Context()), f)
	if err != nil {
		h.responderError(w, "Listar", f, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /ordenes/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	o, err := h.Service.Repository.BuscarPorID(h.Service.DB.WithContext(r.Context()), id)
	if err != nil {
		h.responderError(w, "BuscarPorID", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

// GET /ordenes/{id}/versiones
func (h *Handler) Versiones(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	db := h.Service.DB.WithContext(r.Context())
	o, err := h.Service.Repository.BuscarPorID(db, id)
	if err != nil {
		h.responderError(w, "Versiones", id, err)
		return
	}
	list, err := h.Service.Repository.ListarVersiones(db, o.Anio, o.Correlativo)
	if err != nil {
		h.responderError(w, "Versiones", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// POST /ordenes/{id}/versiones
func (h *Handler) NuevaVersion(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	var req VersionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := h.Service.NuevaVersion(r.Context(), id, req)
	if err != nil {
		h.responderError(w, "NuevaVersion", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}

// PATCH /ordenes/{id}/anular
func (h *Handler) Anular(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	o, err := h.Service.Anular(r.Context(), id)
	if err != nil {
		h.responderError(w, "Anular", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) responderError(w http.ResponseWriter, funcName string, data any, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Orden no encontrada", http.StatusNotFound)
	case errors.Is(err, ErrPlanNoEncontrado), errors.Is(err, ErrAlternativaNoEncontrada):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrSinAlternativas), errors.Is(err, ErrAlternativaOtroPlan):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, plan.ErrAlternativaConsumida), errors.Is(err, ErrEstadoInvalido), errors.Is(err, ErrNumeroDuplicado):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, cache.ErrLockNoObtenido):
		http.Error(w, "Numeración ocupada, reintente", http.StatusServiceUnavailable)
	default:
		config.LogError(h.Service.Logger, "orden", funcName, "service", data, err)
		http.Error(w, "Error al procesar orden", http.StatusInternalServerError)
	}
}
