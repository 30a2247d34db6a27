package plan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EstadoBorrador = "Borrador"
	EstadoAprobado = "Aprobado"
	EstadoConOrden = "ConOrden"
)

type Plan struct {
	gorm.Model
	Nombre       string        `json:"nombre" gorm:"size:150;not null"`
	CampanaID    uint          `json:"campanaId" gorm:"not null;index"`
	ClienteID    uint          `json:"clienteId" gorm:"not null;index"`
	Estado       string        `json:"estado" gorm:"size:20;not null"`
	FechaInicio  time.Time     `json:"fechaInicio"`
	FechaFin     time.Time     `json:"fechaFin"`
	Alternativas []Alternativa `json:"alternativas,omitempty" gorm:"foreignKey:PlanID"`
}

func (Plan) TableName() string { return "planes" }

// Alternativa es una línea del plan: un soporte, una fecha y un valor.
// Queda consumida cuando se emite una orden que la incluye.
type Alternativa struct {
	gorm.Model
	PlanID        uint      `json:"planId" gorm:"not null;index"`
	MedioID       uint      `json:"medioId" gorm:"index"`
	SoporteID     uint      `json:"soporteId" gorm:"index"`
	ProveedorID   uint      `json:"proveedorId" gorm:"index"`
	Fecha         time.Time `json:"fecha" gorm:"index"`
	Descripcion   string    `json:"descripcion"`
	Cantidad      int       `json:"cantidad"`
	ValorUnitario float64   `json:"valorUnitario"`
	Descuento     float64   `json:"descuento"` // %
	ValorTotal    float64   `json:"valorTotal"`
	Costo         float64   `json:"costo"`
	Consumida     bool      `json:"consumida" gorm:"not null;default:false;index"`
	OrdenID       *uint     `json:"ordenId" gorm:"index"`
}

// CalcularValorTotal = cantidad × valorUnitario × (1 − descuento/100), a 2 decimales.
func CalcularValorTotal(cantidad int, valorUnitario, descuento float64) float64 {
	v := decimal.NewFromInt(int64(cantidad)).
		Mul(decimal.NewFromFloat(valorUnitario)).
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(descuento).Div(decimal.NewFromInt(100))))
	return v.Round(2).InexactFloat64()
}

func (a *Alternativa) BeforeSave(tx *gorm.DB) error {
	a.ValorTotal = CalcularValorTotal(a.Cantidad, a.ValorUnitario, a.Descuento)
	return nil
}
