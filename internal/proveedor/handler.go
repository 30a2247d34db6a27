package proveedor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type proveedorRequest struct {
	Nombre   string `json:"nombre" validate:"required,max=150"`
	RUT      string `json:"rut" validate:"required,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
	Telefono string `json:"telefono" validate:"max=30"`
	Activo   *bool  `json:"activo"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Logger     *logrus.Logger
}

func NewHandler(db *gorm.DB, logger *logrus.Logger) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Logger: logger}
}

func (h *Handler) decodificar(w http.ResponseWriter, r *http.Request) (proveedorRequest, bool) {
	var req proveedorRequest
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

// POST /proveedores
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}
	p := Proveedor{Nombre: req.Nombre, RUT: req.RUT, Email: req.Email, Telefono: req.Telefono, Activo: true}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &p); err != nil {
		h.responderError(w, "Crear", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

// GET /proveedores?activos=true
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Listar(h.DB.WithContext(r.Context()), r.URL.Query().Get("activos") == "true")
	if err != nil {
		h.responderError(w, "Listar", nil, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /proveedores/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB.WithContext(r.Context()), id)
	if err != nil {
		h.responderError(w, "BuscarPorID", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// PUT /proveedores/{id}
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
	p, err := h.Repository.BuscarPorID(db, id)
	if err != nil {
		h.responderError(w, "Actualizar", id, err)
		return
	}
	p.Nombre, p.RUT, p.Email, p.Telefono = req.Nombre, req.RUT, req.Email, req.Telefono
	if req.Activo != nil {
		p.Activo = *req.Activo
	}
	if err := h.Repository.Actualizar(db, p); err != nil {
		h.responderError(w, "Actualizar", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// DELETE /proveedores/{id}
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
		http.Error(w, "Proveedor no encontrado", http.StatusNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		http.Error(w, "Ya existe un proveedor con ese RUT", http.StatusConflict)
	default:
		config.LogError(h.Logger, "proveedor", funcName, "db", data, err)
		http.Error(w, "Error al procesar proveedor", http.StatusInternalServerError)
	}
}
