package rentabilidad

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	TipoMargenBajo          = "margen_bajo"
	TipoBonificacionCercana = "bonificacion_cercana"

	EstadoNueva      = "Nueva"
	EstadoRevisada   = "Revisada"
	EstadoDescartada = "Descartada"
)

var ErrEstadoOportunidad = errors.New("estado de oportunidad inválido")

type OportunidadDetectada struct {
	gorm.Model
	Tipo           string    `json:"tipo" gorm:"size:40;not null;uniqueIndex:idx_oportunidad_ref"`
	Referencia     string    `json:"referencia" gorm:"size:60;not null;uniqueIndex:idx_oportunidad_ref"`
	OrdenID        *uint     `json:"ordenId" gorm:"index"`
	ProveedorID    *uint     `json:"proveedorId"`
	MedioID        *uint     `json:"medioId"`
	Descripcion    string    `json:"descripcion"`
	MontoPotencial float64   `json:"montoPotencial"`
	Estado         string    `json:"estado" gorm:"size:20;not null;index"`
	DetectadaEn    time.Time `json:"detectadaEn"`
}

func (OportunidadDetectada) TableName() string { return "oportunidades_detectadas" }

type OportunidadRepository interface {
	Listar(db *gorm.DB, estado string) ([]OportunidadDetectada, error)
	CambiarEstado(db *gorm.DB, id uint, estado string) (*OportunidadDetectada, error)
	ContarAbiertas(db *gorm.DB) (int64, error)
	Registrar(db *gorm.DB, o *OportunidadDetectada) (Accion, error)
}

// Accion dice qué hizo Registrar con una oportunidad detectada.
type Accion int

const (
	Creada Accion = iota
	Actualizada
	Omitida
)

type oportunidadRepositoryImpl struct{}

func NewOportunidadRepository() OportunidadRepository {
	return &oportunidadRepositoryImpl{}
}

func (r *oportunidadRepositoryImpl) Listar(db *gorm.DB, estado string) ([]OportunidadDetectada, error) {
	var list []OportunidadDetectada
	q := db.Order("detectada_en DESC, id DESC")
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *oportunidadRepositoryImpl) CambiarEstado(db *gorm.DB, id uint, estado string) (*OportunidadDetectada, error) {
	switch estado {
	case EstadoNueva, EstadoRevisada, EstadoDescartada:
	default:
		return nil, ErrEstadoOportunidad
	}
	var o OportunidadDetectada
	if err := db.First(&o, id).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&o).Update("estado", estado).Error; err != nil {
		return nil, err
	}
	o.Estado = estado
	return &o, nil
}

func (r *oportunidadRepositoryImpl) ContarAbiertas(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&OportunidadDetectada{}).Where("estado = ?", EstadoNueva).Count(&n).Error
	return n, err
}

// Registrar mantiene una sola oportunidad por (tipo, referencia): si existe y
// sigue Nueva se actualiza; si ya fue revisada o descartada no se vuelve a abrir.
// Si otra detección la inserta entre la búsqueda y el alta, se trata como existente.
func (r *oportunidadRepositoryImpl) Registrar(db *gorm.DB, o *OportunidadDetectada) (Accion, error) {
	existente, err := r.buscarRef(db, o.Tipo, o.Referencia)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		o.Estado = EstadoNueva
		// savepoint propio: un choque de clave no debe abortar la transacción del llamador
		err = db.Transaction(func(tx *gorm.DB) error { return tx.Create(o).Error })
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return Creada, err
		}
		o.ID = 0
		existente, err = r.buscarRef(db, o.Tipo, o.Referencia)
	}
	if err != nil {
		return Omitida, err
	}
	if existente.Estado != EstadoNueva {
		*o = *existente
		return Omitida, nil
	}
	err = db.Model(existente).Updates(map[string]any{
		"descripcion":     o.Descripcion,
		"monto_potencial": o.MontoPotencial,
		"detectada_en":    o.DetectadaEn,
		"orden_id":        o.OrdenID,
		"proveedor_id":    o.ProveedorID,
		"medio_id":        o.MedioID,
	}).Error
	if err != nil {
		return Omitida, err
	}
	o.ID = existente.ID
	o.CreatedAt = existente.CreatedAt
	o.Estado = EstadoNueva
	return Actualizada, nil
}

func (r *oportunidadRepositoryImpl) buscarRef(db *gorm.DB, tipo, referencia string) (*OportunidadDetectada, error) {
	var o OportunidadDetectada
	if err := db.Where("tipo = ? AND referencia = ?", tipo, referencia).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}
