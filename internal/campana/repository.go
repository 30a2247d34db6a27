package campana

import "gorm.io/gorm"

type Repository interface {
	Crear(db *gorm.DB, c *Campana) error
	Listar(db *gorm.DB) ([]Campana, error)
	ListarPorCliente(db *gorm.DB, clienteID uint) ([]Campana, error)
	BuscarPorID(db *gorm.DB, id uint) (*Campana, error)
	Actualizar(db *gorm.DB, c *Campana) error
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Crear(db *gorm.DB, c *Campana) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Campana, error) {
	var list []Campana
	err := db.Order("fecha_inicio DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarPorCliente(db *gorm.DB, clienteID uint) ([]Campana, error) {
	var list []Campana
	err := db.Where("cliente_id = ?", clienteID).Order("fecha_inicio DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Campana, error) {
	var c Campana
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Actualizar(db *gorm.DB, c *Campana) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	res := db.Delete(&Campana{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
