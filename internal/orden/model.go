package orden

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/numeracion"
	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"gorm.io/gorm"
)

const (
	EstadoEmitida     = "Emitida"
	EstadoAnulada     = "Anulada"
	EstadoReemplazada = "Reemplazada"
)

// Orden es una versión de una orden de compra. Todas las versiones comparten
// Anio y Correlativo; solo la última queda Emitida.
type Orden struct {
	gorm.Model
	Numero        string    `json:"numero" gorm:"size:30;uniqueIndex;not null"`
	Anio          int       `json:"anio" gorm:"index:idx_orden_base"`
	Correlativo   int       `json:"correlativo" gorm:"index:idx_orden_base"`
	Version       int       `json:"version"`
	PlanID        uint      `json:"planId" gorm:"not null;index"`
	CampanaID     uint      `json:"campanaId" gorm:"index"`
	ClienteID     uint      `json:"clienteId" gorm:"index"`
	Estado        string    `json:"estado" gorm:"size:20;not null;index"`
	FechaEmision  time.Time `json:"fechaEmision" gorm:"index"`
	MontoTotal    float64   `json:"montoTotal"`
	CostoTotal    float64   `json:"costoTotal"`
	Observaciones string    `json:"observaciones"`

	// Alternativas incluidas en esta versión; se conserva aunque la versión sea reemplazada.
	Alternativas []plan.Alternativa `json:"alternativas,omitempty" gorm:"many2many:orden_alternativas"`
}

func (Orden) TableName() string { return "ordenes" }

func (o Orden) NumeroBase() numeracion.Numero {
	return numeracion.Numero{Anio: o.Anio, Correlativo: o.Correlativo, Version: o.Version}
}

// Migrate crea las tablas de órdenes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Orden{})
}
