package contrato

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type contratoRequest struct {
	Numero      string    `json:"numero" validate:"required,max=50"`
	ClienteID   uint      `json:"clienteId" validate:"required"`
	ProveedorID uint      `json:"proveedorId" validate:"required"`
	MedioID     uint      `json:"medioId"`
	FechaInicio time.Time `json:"fechaInicio" validate:"required"`
	FechaFin    time.Time `json:"fechaFin" validate:"required"`
	Monto       float64   `json:"monto" validate:"gte=0"`
	FormaPago   string    `json:"formaPago" validate:"max=50"`
	Estado      string    `json:"estado" validate:"omitempty,oneof=Borrador Activo Terminado"`
}

func (req contratoRequest) aplicar(c *Contrato) {
	c.Numero = req.Numero
	c.ClienteID = req.ClienteID
	c.ProveedorID = req.ProveedorID
	c.MedioID = req.MedioID
	c.FechaInicio = req.FechaInicio
	c.FechaFin = req.FechaFin
	c.Monto = req.Monto
	c.FormaPago = req.FormaPago
	c.Estado = req.Estado
	if c.Estado == "" {
		c.Estado = EstadoBorrador
	}
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Logger     *logrus.Logger
	Ahora      func() time.Time
}

func NewHandler(db *gorm.DB, logger *logrus.Logger) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Logger: logger, Ahora: time.Now}
}

func (h *Handler) decodificar(w http.ResponseWriter, r *http.Request) (contratoRequest, bool) {
	var req contratoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return req, false
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.FechaFin.Before(req.FechaInicio) {
		http.Error(w, "fechaFin debe ser igual o posterior a fechaInicio", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// POST /contratos
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}
	var c Contrato
	req.aplicar(&c)
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &c); err != nil {
		h.responderError(w, "Crear", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// GET /contratos?vigentes=true&clienteId= y GET /clientes/{id}/contratos
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	f := Filtro{ClienteID: utils.QueryUint(r, "clienteId")}
	if id, err := utils.ParseID(r, "id"); err == nil {
		f.ClienteID = id
	}
	if r.URL.Query().Get("vigentes") == "true" {
		hoy := h.Ahora()
		f.VigentesEn = &hoy
	}
	list, err := h.Repository.Listar(h.DB.WithContext(r.Context()), f)
	if err != nil {
		h.responderError(w, "Listar", f, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /contratos/{id}
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

// PUT /contratos/{id}
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

// DELETE /contratos/{id}
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
		http.Error(w, "Contrato no encontrado", http.StatusNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		http.Error(w, "Ya existe un contrato con ese número", http.StatusConflict)
	default:
		config.LogError(h.Logger, "contrato", funcName, "db", data, err)
		http.Error(w, "Error al procesar contrato", http.StatusInternalServerError)
	}
}
