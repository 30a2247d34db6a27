package permiso

import (
	"gorm.io/gorm"
)

type Repository interface {
	ListarPermisos(db *gorm.DB) ([]Permiso, error)
	ListarPerfiles(db *gorm.DB) ([]Perfil, error)
	BuscarPerfil(db *gorm.DB, id uint) (*Perfil, error)
	CrearPerfil(db *gorm.DB, p *Perfil) error
	AsignarPermisos(db *gorm.DB, perfilID uint, permisoIDs []uint) (*Perfil, error)
	CodigosDePerfil(db *gorm.DB, perfilID uint) ([]string, error)
	PerfilTienePermiso(db *gorm.DB, perfilID uint, codigo string) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) ListarPermisos(db *gorm.DB) ([]Permiso, error) {
	var list []Permiso
	err := db.Order("modulo, codigo").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarPerfiles(db *gorm.DB) ([]Perfil, error) {
	var list []Perfil
	err := db.Preload("Permisos").Order("nombre").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPerfil(db *gorm.DB, id uint) (*Perfil, error) {
	var p Perfil
	if err := db.Preload("Permisos").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) CrearPerfil(db *gorm.DB, p *Perfil) error {
	return db.Create(p).Error
}

// AsignarPermisos reemplaza el conjunto de permisos del perfil.
func (r *repositoryImpl) AsignarPermisos(db *gorm.DB, perfilID uint, permisoIDs []uint) (*Perfil, error) {
	var perfil Perfil
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&perfil, perfilID).Error; err != nil {
			return err
		}
		permisos := []Permiso{}
		if len(permisoIDs) > 0 {
			if err := tx.Where("id IN ?", permisoIDs).Find(&permisos).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&perfil).Association("Permisos").Replace(permisos); err != nil {
			return err
		}
		perfil.Permisos = permisos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &perfil, nil
}

func (r *repositoryImpl) CodigosDePerfil(db *gorm.DB, perfilID uint) ([]string, error) {
	var codigos []string
	err := db.Table("permisos").
		Joins("JOIN perfil_permisos ON perfil_permisos.permiso_id = permisos.id").
		Where("perfil_permisos.perfil_id = ?", perfilID).
		Order("permisos.codigo").
		Pluck("permisos.codigo", &codigos).Error
	return codigos, err
}

func (r *repositoryImpl) PerfilTienePermiso(db *gorm.DB, perfilID uint, codigo string) (bool, error) {
	var n int64
	err := db.Table("perfil_permisos").
		Joins("JOIN permisos ON permisos.id = perfil_permisos.permiso_id").
		Where("perfil_permisos.perfil_id = ? AND permisos.codigo = ?", perfilID, codigo).
		Count(&n).Error
	return n > 0, err
}
