package plan

import (
	"gorm.io/gorm"
)

type Filtro struct {
	CampanaID uint
	ClienteID uint
	Estado    string
}

type Repository interface {
	CrearPlan(db *gorm.DB, p *Plan) error
	ListarPlanes(db *gorm.DB, f Filtro) ([]Plan, error)
	BuscarPlan(db *gorm.DB, id uint) (*Plan, error)
	ActualizarPlan(db *gorm.DB, p *Plan) error
	EliminarPlan(db *gorm.DB, id uint) error
	Duplicar(db *gorm.DB, id uint) (*Plan, error)

	ListarAlternativas(db *gorm.DB, planID uint) ([]Alternativa, error)
	CrearAlternativa(db *gorm.DB, a *Alternativa) error
	BuscarAlternativa(db *gorm.DB, id uint) (*Alternativa, error)
	ActualizarAlternativa(db *gorm.DB, a *Alternativa) error
	EliminarAlternativa(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) CrearPlan(db *gorm.DB, p *Plan) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) ListarPlanes(db *gorm.DB, f Filtro) ([]Plan, error) {
	var list []Plan
	q := db.Order("created_at DESC")
	if f.CampanaID != 0 {
		q = q.Where("campana_id = ?", f.CampanaID)
	}
	if f.ClienteID != 0 {
		q = q.Where("cliente_id = ?", f.ClienteID)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPlan(db *gorm.DB, id uint) (*Plan, error) {
	var p Plan
	err := db.Preload("Alternativas", func(db *gorm.DB) *gorm.DB {
		return db.Order("fecha, id")
	}).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) ActualizarPlan(db *gorm.DB, p *Plan) error {
	return db.Omit("Alternativas").Save(p).Error
}

// EliminarPlan borra el plan y sus alternativas si ninguna está consumida.
func (r *repositoryImpl) EliminarPlan(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p Plan
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		var consumidas int64
		if err := tx.Model(&Alternativa{}).Where("plan_id = ? AND consumida = ?", id, true).Count(&consumidas).Error; err != nil {
			return err
		}
		if consumidas > 0 {
			return ErrPlanConOrden
		}
		if err := tx.Where("plan_id = ?", id).Delete(&Alternativa{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
}

// Duplicar copia el plan como Borrador junto con sus alternativas no consumidas.
func (r *repositoryImpl) Duplicar(db *gorm.DB, id uint) (*Plan, error) {
	var copia Plan
	err := db.Transaction(func(tx *gorm.DB) error {
		var orig Plan
		if err := tx.Preload("Alternativas", "consumida = ?", false).First(&orig, id).Error; err != nil {
			return err
		}
		copia = Plan{
			Nombre:      orig.Nombre + " (copia)",
			CampanaID:   orig.CampanaID,
			ClienteID:   orig.ClienteID,
			Estado:      EstadoBorrador,
			FechaInicio: orig.FechaInicio,
			FechaFin:    orig.FechaFin,
		}
		if err := tx.Create(&copia).Error; err != nil {
			return err
		}
		for _, a := range orig.Alternativas {
			nueva := Alternativa{
				PlanID:        copia.ID,
				MedioID:       a.MedioID,
				SoporteID:     a.SoporteID,
				ProveedorID:   a.ProveedorID,
				Fecha:         a.Fecha,
				Descripcion:   a.Descripcion,
				Cantidad:      a.Cantidad,
				ValorUnitario: a.ValorUnitario,
				Descuento:     a.Descuento,
				Costo:         a.Costo,
			}
			if err := tx.Create(&nueva).Error; err != nil {
				return err
			}
			copia.Alternativas = append(copia.Alternativas, nueva)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &copia, nil
}

func (r *repositoryImpl) ListarAlternativas(db *gorm.DB, planID uint) ([]Alternativa, error) {
	var list []Alternativa
	err := db.Where("plan_id = ?", planID).Order("fecha, id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) CrearAlternativa(db *gorm.DB, a *Alternativa) error {
	a.Consumida = false
	a.OrdenID = nil
	return db.Create(a).Error
}

func (r *repositoryImpl) BuscarAlternativa(db *gorm.DB, id uint) (*Alternativa, error) {
	var a Alternativa
	if err := db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ActualizarAlternativa solo escribe si la fila sigue sin consumir.
func (r *repositoryImpl) ActualizarAlternativa(db *gorm.DB, a *Alternativa) error {
	a.ValorTotal = CalcularValorTotal(a.Cantidad, a.ValorUnitario, a.Descuento)
	res := db.Model(&Alternativa{}).
		Where("id = ? AND consumida = ?", a.ID, false).
		Updates(map[string]any{
			"medio_id":       a.MedioID,
			"soporte_id":     a.SoporteID,
			"proveedor_id":   a.ProveedorID,
			"fecha":          a.Fecha,
			"descripcion":    a.Descripcion,
			"cantidad":       a.Cantidad,
			"valor_unitario": a.ValorUnitario,
			"descuento":      a.Descuento,
			"valor_total":    a.ValorTotal,
			"costo":          a.Costo,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.motivoSinFilas(db, a.ID)
	}
	return nil
}

func (r *repositoryImpl) EliminarAlternativa(db *gorm.DB, id uint) error {
	res := db.Where("consumida = ?", false).Delete(&Alternativa{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.motivoSinFilas(db, id)
	}
	return nil
}

func (r *repositoryImpl) motivoSinFilas(db *gorm.DB, id uint) error {
	a, err := r.BuscarAlternativa(db, id)
	if err != nil {
		return err
	}
	if a.Consumida {
		return ErrAlternativaConsumida
	}
	return gorm.ErrRecordNotFound
}
