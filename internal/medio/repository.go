package medio

import "gorm.io/gorm"

type Repository interface {
	CrearMedio(db *gorm.DB, m *Medio) error
	ListarMedios(db *gorm.DB) ([]Medio, error)
	BuscarMedio(db *gorm.DB, id uint) (*Medio, error)
	ActualizarMedio(db *gorm.DB, m *Medio) error
	EliminarMedio(db *gorm.DB, id uint) error

	CrearSoporte(db *gorm.DB, s *Soporte) error
	ListarSoportes(db *gorm.DB, medioID uint) ([]Soporte, error)
	BuscarSoporte(db *gorm.DB, id uint) (*Soporte, error)
	ActualizarSoporte(db *gorm.DB, s *Soporte) error
	EliminarSoporte(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) CrearMedio(db *gorm.DB, m *Medio) error {
	return db.Create(m).Error
}

func (r *repositoryImpl) ListarMedios(db *gorm.DB) ([]Medio, error) {
	var list []Medio
	err := db.Order("nombre").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarMedio(db *gorm.DB, id uint) (*Medio, error) {
	var m Medio
	if err := db.Preload("Soportes").First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repositoryImpl) ActualizarMedio(db *gorm.DB, m *Medio) error {
	return db.Omit("Soportes").Save(m).Error
}

func (r *repositoryImpl) EliminarMedio(db *gorm.DB, id uint) error {
	return borrar(db, &Medio{}, id)
}

func (r *repositoryImpl) CrearSoporte(db *gorm.DB, s *Soporte) error {
	return db.Create(s).Error
}

// ListarSoportes devuelve todos si medioID es 0.
func (r *repositoryImpl) ListarSoportes(db *gorm.DB, medioID uint) ([]Soporte, error) {
	var list []Soporte
	q := db.Order("nombre")
	if medioID != 0 {
		q = q.Where("medio_id = ?", medioID)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarSoporte(db *gorm.DB, id uint) (*Soporte, error) {
	var s Soporte
	if err := db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repositoryImpl) ActualizarSoporte(db *gorm.DB, s *Soporte) error {
	return db.Save(s).Error
}

func (r *repositoryImpl) EliminarSoporte(db *gorm.DB, id uint) error {
	return borrar(db, &Soporte{}, id)
}

func borrar(db *gorm.DB, modelo any, id uint) error {
	res := db.Delete(modelo, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
