package cliente

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

// POST /clientes
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	var req ClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c := Cliente{Activo: true}
	req.aplicar(&c)
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &c); err != nil {
		h.responderError(w, "Crear", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// GET /clientes?q=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Listar(h.DB.WithContext(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		h.responderError(w, "Listar", nil, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /clientes/{id}
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

// PUT /clientes/{id}
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	var req ClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
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

// DELETE /clientes/{id}
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
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Cliente no encontrado", http.StatusNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		http.Error(w, "Ya existe un cliente con ese RUT", http.StatusConflict)
	default:
		config.LogError(h.Logger, "cliente", funcName, "db", data, err)
		http.Error(w, "Error al procesar cliente", http.StatusInternalServerError)
	}
}
