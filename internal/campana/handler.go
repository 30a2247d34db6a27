package campana

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

func (h *Handler) decodificar(w http.ResponseWriter, r *http.Request) (CampanaRequest, bool) {
	var req CampanaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return req, false
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	if err := req.validarRango(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// POST /campanas
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}
	var c Campana
	req.aplicar(&c)
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &c); err != nil {
		h.responderError(w, "Crear", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// GET /campanas
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Listar(h.DB.WithContext(r.Context()))
	if err != nil {
		h.responderError(w, "Listar", nil, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /clientes/{id}/campanas
func (h *Handler) ListarPorCliente(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	list, err := h.Repository.ListarPorCliente(h.DB.WithContext(r.Context()), id)
	if err != nil {
		h.responderError(w, "ListarPorCliente", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /campanas/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	c, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), id)
	if err != nil {
		h.responderError(w, "BuscarPorID", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// PUT /campanas/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}
	db := h.DB.WithContext(r.Context())
	c, err := h.Repository.BuscarPorID(db, id)
	if err != nil {
		h.responderError(w, "Actualizar", id, err)
		return
	}
	req.aplicar(c)
	if err := h.Repository.Actualizar(db, c); err != nil {
		h.responderError(w, "Actualizar", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// DELETE /campanas/{id}
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Eliminar(h.DB.WithContext(r.Context()), id); err != nil {
		h.responderError(w, "Eliminar", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) responderError(w http.ResponseWriter, funcName string, data any, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Campaña no encontrada", http.StatusNotFound)
		return
	}
	config.LogError(h.Logger, "campana", funcName, "db", data, err)
	http.Error(w, "Error al procesar campaña", http.StatusInternalServerError)
}
