package campana

import (
	"errors"
	"time"
)

var ErrRangoFechas = errors.New("fechaFin debe ser igual o posterior a fechaInicio")

type CampanaRequest struct {
	Nombre      string    `json:"nombre" validate:"required,max=150"`
	ClienteID   uint      `json:"clienteId" validate:"required"`
	FechaInicio time.Time `json:"fechaInicio" validate:"required"`
	FechaFin    time.Time `json:"fechaFin" validate:"required"`
	Presupuesto float64   `json:"presupuesto" validate:"gte=0"`
	Estado      string    `json:"estado" validate:"omitempty,oneof=Planificada Activa Finalizada"`
}

// validarRango exige FechaFin >= FechaInicio.
func (req CampanaRequest) validarRango() error {
	if req.FechaFin.Before(req.FechaInicio) {
		return ErrRangoFechas
	}
	return nil
}

func (req CampanaRequest) aplicar(c *Campana) {
	c.Nombre = req.Nombre
	c.ClienteID = req.ClienteID
	c.FechaInicio = req.FechaInicio
	c.FechaFin = req.FechaFin
	c.Presupuesto = req.Presupuesto
	c.Estado = req.Estado
	if c.Estado == "" {
		c.Estado = EstadoPlanificada
	}
}
