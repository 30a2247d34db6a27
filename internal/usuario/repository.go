package usuario

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error)
	Salvar(db *gorm.DB, u *Usuario) error
	BuscarPorID(db *gorm.DB, id uint) (*Usuario, error)
	ListarTodos(db *gorm.DB) ([]Usuario, error)
	Eliminar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// El email se compara en minúsculas.
func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error) {
	var u Usuario
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) Salvar(db *gorm.DB, u *Usuario) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return db.Save(u).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Usuario, error) {
	var u Usuario
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Usuario, error) {
	var list []Usuario
	err := db.Order("apellido, nombre").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Eliminar(db *gorm.DB, id uint) error {
	res := db.Delete(&Usuario{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
