package comision

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

type configuracionRequest struct {
	MedioID       *uint      `json:"medioId"`
	ProveedorID   *uint      `json:"proveedorId"`
	Tasa          float64    `json:"tasa" validate:"gte=0,lte=100"`
	VigenciaDesde time.Time  `json:"vigenciaDesde" validate:"required"`
	VigenciaHasta *time.Time `json:"vigenciaHasta"`
	Activa        *bool      `json:"activa"`
}

func (req configuracionRequest) aplicar(c *ConfiguracionComision) {
	c.MedioID = req.MedioID
	c.ProveedorID = req.ProveedorID
	c.Tasa = req.Tasa
	c.VigenciaDesde = req.VigenciaDesde
	c.VigenciaHasta = req.VigenciaHasta
	if req.Activa != nil {
		c.Activa = *req.Activa
	}
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Logger     *logrus.Logger
	Defecto    float64
	Ahora      func() time.Time
}

func NewHandler(db *gorm.DB, logger *logrus.Logger, defecto float64) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Logger: logger, Defecto: defecto, Ahora: time.Now}
}

func (h *Handler) decodificar(w http.ResponseWriter, r *http.Request) (configuracionRequest, bool) {
	var req configuracionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return req, false
	}
	if err := utils.Validar(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}
	if req.VigenciaHasta != nil && req.VigenciaHasta.Before(req.VigenciaDesde) {
		http.Error(w, "vigenciaHasta debe ser posterior a vigenciaDesde", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// POST /comisiones
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}
	c := ConfiguracionComision{Activa: true}
	req.aplicar(&c)
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &c); err != nil {
		h.responderError(w, "Crear", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// GET /comisiones
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Listar(h.DB.WithContext(r.Context()))
	if err != nil {
		h.responderError(w, "Listar", nil, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /comisiones/resolver?medioId=&proveedorId=&fecha=
func (h *Handler) ResolverTasa(w http.ResponseWriter, r *http.Request) {
	fecha, err := utils.QueryFecha(r, "fecha", h.Ahora())
	if err != nil {
		http.Error(w, "fecha inválida (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	configs, err := h.Repository.VigentesEn(h.DB.WithContext(r.Context()), fecha)
	if err != nil {
		h.responderError(w, "ResolverTasa", nil, err)
		return
	}
	res := Resolver(configs, utils.QueryUint(r, "medioId"), utils.QueryUint(r, "proveedorId"), fecha, h.Defecto)
	utils.WriteJSON(w, http.StatusOK, res)
}

// PUT /comisiones/{id}
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

// DELETE /comisiones/{id}
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
		http.Error(w, "Configuración de comisión no encontrada", http.StatusNotFound)
		return
	}
	config.LogError(h.Logger, "comision", funcName, "db", data, err)
	http.Error(w, "Error al procesar comisión", http.StatusInternalServerError)
}
