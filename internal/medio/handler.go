package medio

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type medioRequest struct {
	Nombre string `json:"nombre" validate:"required,max=100"`
	Codigo string `json:"codigo" validate:"required,max=20"`
}

type soporteRequest struct {
	Nombre      string `json:"nombre" validate:"required,max=150"`
	MedioID     uint   `json:"medioId" validate:"required"`
	ProveedorID uint   `json:"proveedorId"`
	Activo      *bool  `json:"activo"`
}

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

// POST /medios
func (h *Handler) CrearMedio(w http.ResponseWriter, r *http.Request) {
	req, ok := decodificar[medioRequest](w, r)
	if !ok {
		return
	}
	m := Medio{Nombre: req.Nombre, Codigo: req.Codigo}
	if err := h.Repository.CrearMedio(h.DB.WithContext(r.Context()), &m); err != nil {
		h.responderError(w, "CrearMedio", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, m)
}

// GET /medios
func (h *Handler) ListarMedios(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListarMedios(h.DB.WithContext(r.Context()))
	if err != nil {
		h.responderError(w, "ListarMedios", nil, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /medios/{id}
func (h *Handler) BuscarMedio(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	m, err := h.Repository.BuscarMedio(h.DB.WithContext(r.Context()), id)
	if err != nil {
		h.responderError(w, "BuscarMedio", id, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, m)
}

// PUT /medios/{id}
func (h *Handler) ActualizarMedio(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	req, ok := decodificar[medioRequest](w, r)
	if !ok {
		return
	}
	db := h.DB.WithContext(r.Context())
	m, err := h.Repository.BuscarMedio(db, id)
	if err != nil {
		h.responderError(w, "ActualizarMedio", id, err)
		return
	}
	m.Nombre, m.Codigo = req.Nombre, req.Codigo
	if err := h.Repository.ActualizarMedio(db, m); err != nil {
		h.responderError(w, "ActualizarMedio", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, m)
}

// DELETE /medios/{id}
func (h *Handler) EliminarMedio(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.EliminarMedio(h.DB.WithContext(r.Context()), id); err != nil {
		h.responderError(w, "EliminarMedio", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /soportes
func (h *Handler) CrearSoporte(w http.ResponseWriter, r *http.Request) {
	req, ok := decodificar[soporteRequest](w, r)
	if !ok {
		return
	}
	db := h.DB.WithContext(r.Context())
	if _, err := h.Repository.BuscarMedio(db, req.MedioID); err != nil {
		h.responderError(w, "CrearSoporte", req, err)
		return
	}
	s := Soporte{Nombre: req.Nombre, MedioID: req.MedioID, ProveedorID: req.ProveedorID, Activo: true}
	if req.Activo != nil {
		s.Activo = *req.Activo
	}
	if err := h.Repository.CrearSoporte(db, &s); err != nil {
		h.responderError(w, "CrearSoporte", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, s)
}

// GET /soportes?medioId= y GET /medios/{id}/soportes
func (h *Handler) ListarSoportes(w http.ResponseWriter, r *http.Request) {
	medioID := utils.QueryUint(r, "medioId")
	if id, err := utils.ParseID(r, "id"); err == nil {
		medioID = id
	}
	list, err := h.Repository.ListarSoportes(h.DB.WithContext(r.Context()), medioID)
	if err != nil {
		h.responderError(w, "ListarSoportes", medioID, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// PUT /soportes/{id}
func (h *Handler) ActualizarSoporte(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	req, ok := decodificar[soporteRequest](w, r)
	if !ok {
		return
	}
	db := h.DB.WithContext(r.Context())
	s, err := h.Repository.BuscarSoporte(db, id)
	if err != nil {
		h.responderError(w, "ActualizarSoporte", id, err)
		return
	}
	s.Nombre, s.MedioID, s.ProveedorID = req.Nombre, req.MedioID, req.ProveedorID
	if req.Activo != nil {
		s.Activo = *req.Activo
	}
	if err := h.Repository.ActualizarSoporte(db, s); err != nil {
		h.responderError(w, "ActualizarSoporte", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

// DELETE /soportes/{id}
func (h *Handler) EliminarSoporte(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "id")
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.EliminarSoporte(h.DB.WithContext(r.Context()), id); err != nil {
		h.responderError(w, "EliminarSoporte", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) responderError(w http.ResponseWriter, funcName string, data any, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Medio o soporte no encontrado", http.StatusNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		http.Error(w, "Ya existe un medio con ese código", http.StatusConflict)
	default:
		config.LogError(h.Logger, "medio", funcName, "db", data, err)
		http.Error(w, "Error al procesar medio", http.StatusInternalServerError)
	}
}
