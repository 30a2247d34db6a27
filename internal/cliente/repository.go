package cliente

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Crear(db *gorm.DB, c *Cliente) error
	Listar(db *gorm.DB, q string) ([]Cliente, error)
	BuscarPorID(db *gorm.DB, id uint) (*Cliente, error)
	BuscarPorIDs(db *gorm.DB, ids []uint) ([]Cliente, error)
	Actualizar(db *gorm.DB, c *Cliente) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *Cliente) error {
	return db.Create(c).Error
}

// Listar filtra por nombre, razón social o RUT cuando q no viene vacío.
func (r *repositoryImpl) Listar(db *gorm.DB, q string) ([]Cliente, error) {
	var list []Cliente
	query := db.Order("nombre")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(nombre) LIKE ? OR LOWER(razon_social) LIKE ? OR LOWER(rut) LIKE ?", like, like, like)
	}
	err := query.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Cliente, error) {
	var c Cliente
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) BuscarPorIDs(db *gorm.DB, ids []uint) ([]Cliente, error) {
	var list []Cliente
	if len(ids) == 0 {
		return list, nil
	}
	err := db.Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, c *Cliente) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	res := db.Delete(&Cliente{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
