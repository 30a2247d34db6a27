package bonificacion

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

type bonificacionRequest struct {
	MedioID       uint       `json:"medioId" validate:"required"`
	ProveedorID   *uint      `json:"proveedorId"`
	Tasa          float64    `json:"tasa" validate:"gte=0,lte=100"`
	MontoMinimo   float64    `json:"montoMinimo" validate:"gte=0"`
	VigenciaDesde time.Time  `json:"vigenciaDesde" validate:"required"`
	VigenciaHasta *time.Time `json:"vigenciaHasta"`
	Activa        *bool      `json:"activa"`
}

func (req bonificacionRequest) aplicar(b *BonificacionMedio) {
	b.MedioID = req.MedioID
	b.ProveedorID = req.ProveedorID
	b.Tasa = req.Tasa
	b.MontoMinimo = req.MontoMinimo
	b.VigenciaDesde = req.VigenciaDesde
	b.VigenciaHasta = req.VigenciaHasta
	if req.Activa != nil {
		b.Activa = *req.Activa
	}
}

// EstadoBonificacion muestra cuánto falta para alcanzar el monto mínimo.
type EstadoBonificacion struct {
	BonificacionMedio
	Acumulado float64 `json:"acumulado"`
	Avance    float64 `json:"avance"` // % del monto mínimo
	Alcanzada bool    `json:"alcanzada"`
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

func (h *Handler) decodificar(w http.ResponseWriter, r *http.Request) (bonificacionRequest, bool) {
	var req bonificacionRequest
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

// POST /bonificaciones
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}
	b := BonificacionMedio{Activa: true}
	req.aplicar(&b)
	if err := h.Repository.Crear(h.DB.WithContext(r.Context()), &b); err != nil {
		h.responderError(w, "Crear", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, b)
}

// GET /bonificaciones?activas=true. Incluye el avance de cada una hacia su monto mínimo.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	db := h.DB.WithContext(r.Context())
	list, err := h.Repository.Listar(db, r.URL.Query().Get("activas") == "true")
	if err != nil {
		h.responderError(w, "Listar", nil, err)
		return
	}
	acum := NewAcumulador(db, h.Repository, h.Ahora())
	out := make([]EstadoBonificacion, 0, len(list))
	for _, b := range list {
		v, err := acum.Acumulado(b)
		if err != nil {
			h.responderError(w, "Listar", b.ID, err)
			return
		}
		out = append(out, Avance(b, v))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// Avance arma el estado de una bonificación dado su acumulado.
func Avance(b BonificacionMedio, acumulado float64) EstadoBonificacion {
	e := EstadoBonificacion{BonificacionMedio: b, Acumulado: acumulado, Alcanzada: acumulado >= b.MontoMinimo}
	if b.MontoMinimo > 0 {
		e.Avance = acumulado / b.MontoMinimo * 100
	} else {
		e.Avance = 100
	}
	return e
}

// PUT /bonificaciones/{id}
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
	b, err := h.Repository.BuscarPorID(db, id)
	if err != nil {
		h.responderError(w, "Actualizar", id, err)
		return
	}
	req.aplicar(b)
	if err := h.Repository.Actualizar(db, b); err != nil {
		h.responderError(w, "Actualizar", req, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, b)
}

// DELETE /bonificaciones/{id}
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
		http.Error(w, "Bonificación no encontrada", http.StatusNotFound)
		return
	}
	config.LogError(h.Logger, "bonificacion", funcName, "db", data, err)
	http.Error(w, "Error al procesar bonificación", http.StatusInternalServerError)
}
