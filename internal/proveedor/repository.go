package proveedor

import "gorm.io/gorm"

type Repository interface {
	Crear(db *gorm.DB, p *Proveedor) error
	Listar(db *gorm.DB, soloActivos bool) ([]Proveedor, error)
	BuscarPorID(db *gorm.DB, id uint) (*Proveedor, error)
	Actualizar(db *gorm.DB, p *Proveedor) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, p *Proveedor) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB, soloActivos bool) ([]Proveedor, error) {
	var list []Proveedor
	q := db.Order("nombre")
	if soloActivos {
		q = q.Where("activo = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Proveedor, error) {
	var p Proveedor
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, p *Proveedor) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	res := db.Delete(&Proveedor{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
