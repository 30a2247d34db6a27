package campana

import (
	"time"

	"gorm.io/gorm"
)

const (
	EstadoPlanificada = "Planificada"
	EstadoActiva      = "Activa"
	EstadoFinalizada  = "Finalizada"
)

type Campana struct {
	gorm.Model
	Nombre      string    `json:"nombre" gorm:"size:150;not null"`
	ClienteID   uint      `json:"clienteId" gorm:"not null;index"`
	FechaInicio time.Time `json:"fechaInicio"`
	FechaFin    time.Time `json:"fechaFin"`
	Presupuesto float64   `json:"presupuesto"`
	Estado      string    `json:"estado" gorm:"size:30"`
}
