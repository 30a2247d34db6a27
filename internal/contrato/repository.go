package contrato

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"gorm.io/gorm"
)

// Filtro de listado; campos en cero no filtran.
type Filtro struct {
	ClienteID  uint
	VigentesEn *time.Time
}

type Repository interface {
	Crear(db *gorm.DB, c *Contrato) error
	Listar(db *gorm.DB, f Filtro) ([]Contrato, error)
	BuscarPorID(db *gorm.DB, id uint) (*Contrato, error)
	Actualizar(db *gorm.DB, c *Contrato) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *Contrato) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]Contrato, error) {
	var contratos []Contrato
	q := db.Order("fecha_inicio DESC")
	if f.ClienteID != 0 {
		q = q.Where("cliente_id = ?", f.ClienteID)
	}
	if f.VigentesEn != nil {
		q = q.Where("estado = ? AND fecha_inicio < ? AND fecha_fin >= ?",
			EstadoActivo, utils.FinDelDia(*f.VigentesEn), utils.Dia(*f.VigentesEn))
	}
	err := q.Find(&contratos).Error
	return contratos, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Contrato, error) {
	var c Contrato
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, c *Contrato) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	res := db.Delete(&Contrato{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
