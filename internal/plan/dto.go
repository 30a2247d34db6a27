package plan

import "time"

type PlanRequest struct {
	Nombre      string    `json:"nombre" validate:"required,max=150"`
	CampanaID   uint      `json:"campanaId" validate:"required"`
	ClienteID   uint      `json:"clienteId" validate:"required"`
	Estado      string    `json:"estado" validate:"omitempty,oneof=Borrador Aprobado"`
	FechaInicio time.Time `json:"fechaInicio"`
	FechaFin    time.Time `json:"fechaFin"`
}

type AlternativaRequest struct {
	MedioID       uint      `json:"medioId" validate:"required"`
	SoporteID     uint      `json:"soporteId" validate:"required"`
	ProveedorID   uint      `json:"proveedorId" validate:"required"`
	Fecha         time.Time `json:"fecha" validate:"required"`
	Descripcion   string    `json:"descripcion" validate:"max=255"`
	Cantidad      int       `json:"cantidad" validate:"gte=1"`
	ValorUnitario float64   `json:"valorUnitario" validate:"gte=0"`
	Descuento     float64   `json:"descuento" validate:"gte=0,lte=100"`
	Costo         float64   `json:"costo" validate:"gte=0"`
}

func (req AlternativaRequest) aplicar(a *Alternativa) {
	a.MedioID = req.MedioID
	a.SoporteID = req.SoporteID
	a.ProveedorID = req.ProveedorID
	a.Fecha = req.Fecha
	a.Descripcion = req.Descripcion
	a.Cantidad = req.Cantidad
	a.ValorUnitario = req.ValorUnitario
	a.Descuento = req.Descuento
	a.Costo = req.Costo
}
