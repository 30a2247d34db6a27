package comision

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"gorm.io/gorm"
)

// ConfiguracionComision define la tasa (%) que cobra la agencia. MedioID y
// ProveedorID nulos hacen la regla más general.
type ConfiguracionComision struct {
	gorm.Model
	MedioID       *uint      `json:"medioId" gorm:"index"`
	ProveedorID   *uint      `json:"proveedorId" gorm:"index"`
	Tasa          float64    `json:"tasa"`
	VigenciaDesde time.Time  `json:"vigenciaDesde"`
	VigenciaHasta *time.Time `json:"vigenciaHasta"`
	Activa        bool       `json:"activa"`
}

func (ConfiguracionComision) TableName() string { return "configuraciones_comision" }

// VigenteEn: activa y con fecha dentro de [desde, hasta]; hasta nulo es abierto.
func (c ConfiguracionComision) VigenteEn(fecha time.Time) bool {
	return c.Activa && utils.EnVigencia(fecha, c.VigenciaDesde, c.VigenciaHasta)
}
