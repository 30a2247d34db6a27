package dashboard

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
)

const diasPorDefecto = 30

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) consulta(r *http.Request) (Consulta, error) {
	hoy := utils.Dia(h.Service.Ahora())
	hasta, err := utils.QueryFecha(r, "hasta", hoy)
	if err != nil {
		return Consulta{}, errors.New("hasta debe tener formato YYYY-MM-DD")
	}
	desde, err := utils.QueryFecha(r, "desde", hasta.AddDate(0, 0, -diasPorDefecto))
	if err != nil {
		return Consulta{}, errors.New("desde debe tener formato YYYY-MM-DD")
	}
	if hasta.Before(desde) {
		return Consulta{}, errors.New("hasta no puede ser anterior a desde")
	}
	agrupar := r.URL.Query().Get("agrupar")
	if agrupar == "" {
		agrupar = PorDia
	}
	return Consulta{Desde: desde, Hasta: hasta, Agrupar: agrupar}, nil
}

func (h *Handler) resumen(w http.ResponseWriter, r *http.Request, funcName string) *Resumen {
	c, err := h.consulta(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	res, err := h.Service.Resumen(r.Context(), c)
	if errors.Is(err, ErrAgrupacion) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	if err != nil {
		config.LogError(h.Service.Logger, "dashboard", funcName, "service", c, err)
		http.Error(w, "Error al generar el resumen", http.StatusInternalServerError)
		return nil
	}
	return res
}

// GET /dashboard/rentabilidad?desde=&hasta=&agrupar=dia|semana|cliente
func (h *Handler) Rentabilidad(w http.ResponseWriter, r *http.Request) {
	if res := h.resumen(w, r, "Rentabilidad"); res != nil {
		utils.WriteJSON(w, http.StatusOK, res)
	}
}

// GET /dashboard/rentabilidad/export
func (h *Handler) Exportar(w http.ResponseWriter, r *http.Request) {
	res := h.resumen(w, r, "Exportar")
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=rentabilidad_%s_%s.xlsx", res.Desde, res.Hasta))
	if err := EscribirExcel(w, res); err != nil {
		config.LogError(h.Service.Logger, "dashboard", "Exportar", "excel", nil, err)
	}
}
