package calendario

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"gorm.io/gorm"
)

type Filtro struct {
	Desde     time.Time
	Hasta     time.Time // inclusive
	MedioID   uint
	SoporteID uint
}

type Repository interface {
	Alternativas(db *gorm.DB, f Filtro) ([]plan.Alternativa, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Alternativas(db *gorm.DB, f Filtro) ([]plan.Alternativa, error) {
	var list []plan.Alternativa
	q := db.Where("fecha >= ? AND fecha < ?", truncar(f.Desde), truncar(f.Hasta).AddDate(0, 0, 1)).
		Order("fecha, id")
	if f.MedioID != 0 {
		q = q.Where("medio_id = ?", f.MedioID)
	}
	if f.SoporteID != 0 {
		q = q.Where("soporte_id = ?", f.SoporteID)
	}
	err := q.Find(&list).Error
	return list, err
}
