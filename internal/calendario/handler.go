package calendario

import (
	"errors"
	"net/http"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/medio"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Medios     medio.Repository
	Logger     *logrus.Logger
}

func NewHandler(db *gorm.DB, logger *logrus.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Medios:     medio.NewRepository(),
		Logger:     logger,
	}
}

// GET /calendario?desde=&hasta=&medioId=&soporteId=
func (h *Handler) Calendario(w http.ResponseWriter, r *http.Request) {
	desde, err := utils.QueryFecha(r, "desde", time.Time{})
	if err != nil || desde.IsZero() {
		http.Error(w, "desde es obligatorio con formato YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	hasta, err := utils.QueryFecha(r, "hasta", desde.AddDate(0, 0, 30))
	if err != nil {
		http.Error(w, "hasta debe tener formato YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := ValidarRango(desde, hasta); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f := Filtro{
		Desde:     desde,
		Hasta:     hasta,
		MedioID:   utils.QueryUint(r, "medioId"),
		SoporteID: utils.QueryUint(r, "soporteId"),
	}
	db := h.DB.WithContext(r.Context())

	var soportes []medio.Soporte
	if f.SoporteID != 0 {
		s, err := h.Medios.BuscarSoporte(db, f.SoporteID)
		if err != nil {
			h.responderError(w, "Calendario", f, err)
			return
		}
		soportes = []medio.Soporte{*s}
	} else {
		soportes, err = h.Medios.ListarSoportes(db, f.MedioID)
		if err != nil {
			h.responderError(w, "Calendario", f, err)
			return
		}
	}

	alternativas, err := h.Repository.Alternativas(db, f)
	if err != nil {
		h.responderError(w, "Calendario", f, err)
		return
	}
	dias, err := Construir(desde, hasta, soportes, alternativas)
	if err != nil {
		h.responderError(w, "Calendario", f, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dias)
}

func (h *Handler) responderError(w http.ResponseWriter, funcName string, data any, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "Soporte no encontrado", http.StatusNotFound)
	case errors.Is(err, ErrRango), errors.Is(err, ErrRangoLargo):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		config.LogError(h.Logger, "calendario", funcName, "db", data, err)
		http.Error(w, "Error al armar el calendario", http.StatusInternalServerError)
	}
}
