package orden

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"gorm.io/gorm"
)

type Filtro struct {
	ClienteID uint
	PlanID    uint
	Estado    string
	Desde     *time.Time
	Hasta     *time.Time

	ConAlternativas bool
}

type Repository interface {
	UltimoNumero(db *gorm.DB, anio int) (string, error)
	MaxVersion(db *gorm.DB, anio, correlativo int) (int, error)
	Crear(db *gorm.DB, o *Orden) error
	BuscarPorID(db *gorm.DB, id uint) (*Orden, error)
	Listar(db *gorm.DB, f Filtro) ([]Orden, error)
	ListarVersiones(db *gorm.DB, anio, correlativo int) ([]Orden, error)
	CambiarEstado(db *gorm.DB, id uint, estado string) error
	EmitidasDelPlan(db *gorm.DB, planID uint) (int64, error)
	RecalcularTotales(db *gorm.DB, o *Orden) error

	BuscarAlternativas(db *gorm.DB, ids []uint) ([]plan.Alternativa, error)
	ConsumirAlternativas(db *gorm.DB, ordenID uint, ids []uint, liberarDe uint) (int64, error)
	LiberarAlternativas(db *gorm.DB, ordenID uint, conservar []uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// UltimoNumero lee el número más reciente del año; "" si no hay órdenes.
func (r *repositoryImpl) UltimoNumero(db *gorm.DB, anio int) (string, error) {
	var numeros []string
	err := db.Model(&Orden{}).
		Where("anio = ?", anio).
		Order("correlativo DESC, version DESC").
		Limit(1).
		Pluck("numero", &numeros).Error
	if err != nil || len(numeros) == 0 {
		return "", err
	}
	return numeros[0], nil
}

func (r *repositoryImpl) MaxVersion(db *gorm.DB, anio, correlativo int) (int, error) {
	var max int
	err := db.Model(&Orden{}).
		Where("anio = ? AND correlativo = ?", anio, correlativo).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error
	return max, err
}

// Crear inserta la orden y las filas de orden_alternativas sin tocar las alternativas.
func (r *repositoryImpl) Crear(db *gorm.DB, o *Orden) error {
	return db.Omit("Alternativas.*").Create(o).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Orden, error) {
	var o Orden
	if err := db.Preload("Alternativas").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]Orden, error) {
	var list []Orden
	q := db.Order("fecha_emision DESC, id DESC")
	if f.ConAlternativas {
		q = q.Preload("Alternativas")
	}
	if f.ClienteID != 0 {
		q = q.Where("cliente_id = ?", f.ClienteID)
	}
	if f.PlanID != 0 {
		q = q.Where("plan_id = ?", f.PlanID)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	if f.Desde != nil {
		q = q.Where("fecha_emision >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("fecha_emision < ?", *f.Hasta)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarVersiones(db *gorm.DB, anio, correlativo int) ([]Orden, error) {
	var list []Orden
	err := db.Where("anio = ? AND correlativo = ?", anio, correlativo).
		Order("version").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) CambiarEstado(db *gorm.DB, id uint, estado string) error {
	return db.Model(&Orden{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *repositoryImpl) EmitidasDelPlan(db *gorm.DB, planID uint) (int64, error) {
	var n int64
	err := db.Model(&Orden{}).Where("plan_id = ? AND estado = ?", planID, EstadoEmitida).Count(&n).Error
	return n, err
}

// RecalcularTotales suma valor y costo de las alternativas de la orden.
func (r *repositoryImpl) RecalcularTotales(db *gorm.DB, o *Orden) error {
	var totales struct {
		Monto float64
		Costo float64
	}
	err := db.Table("alternativas").
		Joins("JOIN orden_alternativas ON orden_alternativas.alternativa_id = alternativas.id").
		Where("orden_alternativas.orden_id = ?", o.ID).
		Select("COALESCE(SUM(alternativas.valor_total), 0) AS monto, COALESCE(SUM(alternativas.costo), 0) AS costo").
		Scan(&totales).Error
	if err != nil {
		return err
	}
	o.MontoTotal = totales.Monto
	o.CostoTotal = totales.Costo
	return db.Model(&Orden{}).Where("id = ?", o.ID).Updates(map[string]any{
		"monto_total": o.MontoTotal,
		"costo_total": o.CostoTotal,
	}).Error
}

func (r *repositoryImpl) BuscarAlternativas(db *gorm.DB, ids []uint) ([]plan.Alternativa, error) {
	var list []plan.Alternativa
	err := db.Where("id IN ?", ids).Order("id").Find(&list).Error
	return list, err
}

// ConsumirAlternativas marca las alternativas como consumidas por ordenID. Solo
// toma las libres o, si liberarDe != 0, las que ya pertenecían a esa orden.
// Retorna cuántas filas cambió.
func (r *repositoryImpl) ConsumirAlternativas(db *gorm.DB, ordenID uint, ids []uint, liberarDe uint) (int64, error) {
	q := db.Model(&plan.Alternativa{}).Where("id IN ?", ids)
	if liberarDe != 0 {
		q = q.Where("consumida = ? OR orden_id = ?", false, liberarDe)
	} else {
		q = q.Where("consumida = ?", false)
	}
	res := q.Updates(map[string]any{"consumida": true, "orden_id": ordenID})
	return res.RowsAffected, res.Error
}

// LiberarAlternativas devuelve al plan las alternativas de la orden que no estén en conservar.
func (r *repositoryImpl) LiberarAlternativas(db *gorm.DB, ordenID uint, conservar []uint) error {
	q := db.Model(&plan.Alternativa{}).Where("orden_id = ?", ordenID)
	if len(conservar) > 0 {
		q = q.Where("id NOT IN ?", conservar)
	}
	return q.Updates(map[string]any{"consumida": false, "orden_id": nil}).Error
}
