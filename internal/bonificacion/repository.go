package bonificacion

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/orden"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, b *BonificacionMedio) error
	Listar(db *gorm.DB, soloActivas bool) ([]BonificacionMedio, error)
	BuscarPorID(db *gorm.DB, id uint) (*BonificacionMedio, error)
	Actualizar(db *gorm.DB, b *BonificacionMedio) error
	Eliminar(db *gorm.DB, id uint) error
	CostoAcumulado(db *gorm.DB, b BonificacionMedio, hasta time.Time) (float64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, b *BonificacionMedio) error {
	return db.Create(b).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB, soloActivas bool) ([]BonificacionMedio, error) {
	var list []BonificacionMedio
	q := db.Order("medio_id, vigencia_desde DESC")
	if soloActivas {
		q = q.Where("activa = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*BonificacionMedio, error) {
	var b BonificacionMedio
	if err := db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, b *BonificacionMedio) error {
	return db.Save(b).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	res := db.Delete(&BonificacionMedio{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CostoAcumulado suma el costo de las alternativas en órdenes emitidas dentro de
// la vigencia de la bonificación (cortada en hasta), para su medio y proveedor.
func (r *repositoryImpl) CostoAcumulado(db *gorm.DB, b BonificacionMedio, hasta time.Time) (float64, error) {
	q := db.Table("alternativas").
		Joins("JOIN ordenes ON ordenes.id = alternativas.orden_id").
		Where("ordenes.estado = ? AND ordenes.deleted_at IS NULL AND alternativas.deleted_at IS NULL", orden.EstadoEmitida).
		Where("alternativas.medio_id = ?", b.MedioID).
		Where("ordenes.fecha_emision >= ? AND ordenes.fecha_emision <= ?", utils.Dia(b.VigenciaDesde), hasta)
	if b.VigenciaHasta != nil {
		q = q.Where("ordenes.fecha_emision < ?", utils.FinDelDia(*b.VigenciaHasta))
	}
	if b.ProveedorID != nil {
		q = q.Where("alternativas.proveedor_id = ?", *b.ProveedorID)
	}
	var total float64
	err := q.Select("COALESCE(SUM(alternativas.costo), 0)").Scan(&total).Error
	return total, err
}

// Acumulador memoriza CostoAcumulado por bonificación durante un cálculo.
type Acumulador struct {
	DB    *gorm.DB
	Repo  Repository
	Hasta time.Time
	memo  map[uint]float64
}

func NewAcumulador(db *gorm.DB, repo Repository, hasta time.Time) *Acumulador {
	return &Acumulador{DB: db, Repo: repo, Hasta: hasta, memo: map[uint]float64{}}
}

func (a *Acumulador) Acumulado(b BonificacionMedio) (float64, error) {
	if v, ok := a.memo[b.ID]; ok {
		return v, nil
	}
	v, err := a.Repo.CostoAcumulado(a.DB, b, a.Hasta)
	if err != nil {
		return 0, err
	}
	a.memo[b.ID] = v
	return v, nil
}
