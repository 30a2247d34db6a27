package comision

import (
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, c *ConfiguracionComision) error
	Listar(db *gorm.DB) ([]ConfiguracionComision, error)
	VigentesEn(db *gorm.DB, fecha time.Time) ([]ConfiguracionComision, error)
	BuscarPorID(db *gorm.DB, id uint) (*ConfiguracionComision, error)
	Actualizar(db *gorm.DB, c *ConfiguracionComision) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *ConfiguracionComision) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]ConfiguracionComision, error) {
	var list []ConfiguracionComision
	err := db.Order("vigencia_desde DESC, id").Find(&list).Error
	return list, err
}

// VigentesEn trae las activas que cubren la fecha; el filtro fino lo hace Resolver.
func (r *repositoryImpl) VigentesEn(db *gorm.DB, fecha time.Time) ([]ConfiguracionComision, error) {
	var list []ConfiguracionComision
	err := db.Where("activa = ? AND vigencia_desde < ? AND (vigencia_hasta IS NULL OR vigencia_hasta >= ?)",
		true, utils.FinDelDia(fecha), utils.Dia(fecha)).
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*ConfiguracionComision, error) {
	var c ConfiguracionComision
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, c *ConfiguracionComision) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	res := db.Delete(&ConfiguracionComision{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
