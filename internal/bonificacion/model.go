package bonificacion

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"gorm.io/gorm"
)

// BonificacionMedio es el porcentaje que devuelve un medio sobre el costo
// comprado una vez que la inversión acumulada llega a MontoMinimo.
type BonificacionMedio struct {
	gorm.Model
	MedioID       uint       `json:"medioId" gorm:"not null;index"`
	ProveedorID   *uint      `json:"proveedorId" gorm:"index"`
	Tasa          float64    `json:"tasa"`
	MontoMinimo   float64    `json:"montoMinimo"`
	VigenciaDesde time.Time  `json:"vigenciaDesde"`
	VigenciaHasta *time.Time `json:"vigenciaHasta"`
	Activa        bool       `json:"activa"`
}

func (BonificacionMedio) TableName() string { return "bonificaciones_medio" }

func (b BonificacionMedio) VigenteEn(fecha time.Time) bool {
	return b.Activa && utils.EnVigencia(fecha, b.VigenciaDesde, b.VigenciaHasta)
}
