package contrato

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"gorm.io/gorm"
)

const (
	EstadoBorrador  = "Borrador"
	EstadoActivo    = "Activo"
	EstadoTerminado = "Terminado"
)

// Contrato es el acuerdo marco entre un cliente y un proveedor para un medio.
type Contrato struct {
	gorm.Model

	Numero      string `gorm:"size:50;uniqueIndex" json:"numero"`
	ClienteID   uint   `gorm:"not null;index" json:"clienteId"`
	ProveedorID uint   `gorm:"not null;index" json:"proveedorId"`
	MedioID     uint   `gorm:"index" json:"medioId"`

	FechaInicio time.Time `json:"fechaInicio"`
	FechaFin    time.Time `json:"fechaFin"`
	Monto       float64   `gorm:"not null" json:"monto"`
	FormaPago   string    `gorm:"size:50" json:"formaPago"` // ej: "Contado", "30 días"
	Estado      string    `gorm:"size:30" json:"estado"`
}

// Vigente indica si el contrato está activo y la fecha cae dentro de su rango.
func (c Contrato) Vigente(fecha time.Time) bool {
	return c.Estado == EstadoActivo && utils.EnVigencia(fecha, c.FechaInicio, &c.FechaFin)
}
