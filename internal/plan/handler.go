package plan

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Logger     *logrus.Logger
}

func NewHandler(db *gorm.DB, logger *logrus.Logger) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Logger: logger}
}

func decodificar[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return req, false
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// POST /planes
func (h *Handler) CrearPlan(w http.ResponseWriter, r *http.Request) {
	req, ok := decodificar[PlanRequest](w, r)
	if !ok {
		return
	}
	p := Plan{
		Nombre:      req.Nombre,
		CampanaID:   req.CampanaID,
		ClienteID:   req.ClienteID,
		Estado:      req.Estado,
		FechaInicio: req.FechaInicio,
		FechaFin:    req.FechaFin,
	}
	if p.Estado == "" {
		p.Estado = EstadoBorrador
	}
	if err := h.Repository.CrearPlan(h.DB.WithContext(r.Context()), &p); err != nil {
		h.responderError(w, "CrearPlan", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

// GET /planes?campanaId=&clienteId=&estado=
func (h *Handler) ListarPlanes(w http.ResponseWriter, r *http.Request) {
	f := Filtro{
		CampanaID: utils.QueryUint(r, "campanaId"),
		ClienteID: utils.QueryUint(r, "clienteId"),
		Estado:    r.URL.Query().Get("estado"),
	}
	list, err := h.Repository.ListarPlanes(h.DB.WithContext(r.Context()), f)
	if err != nil {
		h.responderError(w, "ListarPlanes", f, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /planes/{id}
func (h *Handler) BuscarPlan(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPlan(h.DB.WithContext(r.Context()), id)
	if err != nil {
		h.responderError(w, "BuscarPlan", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// PUT /planes/{id}. El estado ConOrden lo maneja el módulo de órdenes.
func (h *Handler) ActualizarPlan(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	req, ok := decodificar[PlanRequest](w, r)
	if !ok {
		return
	}
	db := h.DB.WithContext(r.Context())
	p, err := h.Repository.BuscarPlan(db, id)
	if err != nil {
		h.responderError(w, "ActualizarPlan", id, err)
		return
	}
	p.Nombre = req.Nombre
	p.CampanaID = req.CampanaID
	p.ClienteID = req.ClienteID
	p.FechaInicio = req.FechaInicio
	p.FechaFin = req.FechaFin
	if req.Estado != "" && p.Estado != EstadoConOrden {
		p.Estado = req.Estado
	}
	if err := h.Repository.ActualizarPlan(db, p); err != nil {
		h.responderError(w, "ActualizarPlan", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// DELETE /planes/{id}
func (h *Handler) EliminarPlan(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.EliminarPlan(h.DB.WithContext(r.Context()), id); err != nil {
		h.responderError(w, "EliminarPlan", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /planes/{id}/duplicar
func (h *Handler) Duplicar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.Duplicar(h.DB.WithContext(r.Context()), id)
	if err != nil {
		h.responderError(w, "Duplicar", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

// GET /planes/{id}/alternativas
func (h *Handler) ListarAlternativas(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	list, err := h.Repository.ListarAlternativas(h.DB.WithContext(r.Context()), id)
	if err != nil {
		h.responderError(w, "ListarAlternativas", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// POST /planes/{id}/alternativas
func (h *Handler) CrearAlternativa(w http.ResponseWriter, r *http.Request) {
	planID, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	req, ok := decodificar[AlternativaRequest](w, r)
	if !ok {
		return
	}
	db := h.DB.WithContext(r.Context())
	if _, err := h.Repository.BuscarPlan(db, planID); err != nil {
		h.responderError(w, "CrearAlternativa", planID, err)
		return
	}
	a := Alternativa{PlanID: planID}
	req.aplicar(&a)
	if err := h.Repository.CrearAlternativa(db, &a); err != nil {
		h.responderError(w, "CrearAlternativa", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, a)
}

// PUT /alternativas/{id}
func (h *Handler) ActualizarAlternativa(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	req, ok := decodificar[AlternativaRequest](w, r)
	if !ok {
		return
	}
	db := h.DB.WithContext(r.Context())
	a, err := h.Repository.BuscarAlternativa(db, id)
	if err != nil {
		h.responderError(w, "ActualizarAlternativa", id, err)
		return
	}
	req.aplicar(a)
	if err := h.Repository.ActualizarAlternativa(db, a); err != nil {
		h.responderError(w, "ActualizarAlternativa", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, a)
}

// DELETE /alternativas/{id}
func (h *Handler) EliminarAlternativa(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.EliminarAlternativa(h.DB.WithContext(r.Context()), id); err != nil {
		h.responderError(w, "EliminarAlternativa", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) responderError(w http.ResponseWriter, funcName string, data any, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Plan o alternativa no encontrado", http.StatusNotFound)
	case errors.Is(err, ErrAlternativaConsumida), errors.Is(err, ErrPlanConOrden):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		config.LogError(h.Logger, "plan", funcName, "db", data, err)
		http.Error(w, "Error al procesar plan", http.StatusInternalServerError)
	}
}
