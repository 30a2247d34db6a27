package rentabilidad

import (
	"context"
	"fmt"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/bonificacion"
	"github.com/AgenciaMedios/api-agencia/internal/comision"
	"github.com/AgenciaMedios/api-agencia/internal/orden"
	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// fracción del monto mínimo desde la cual una bonificación se considera cercana
const umbralCercania = 0.8

type LineaAlternativa struct {
	AlternativaID    uint    `json:"alternativaId"`
	MedioID          uint    `json:"medioId"`
	SoporteID        uint    `json:"soporteId"`
	ProveedorID      uint    `json:"proveedorId"`
	TasaComision     float64 `json:"tasaComision"`
	TasaBonificacion float64 `json:"tasaBonificacion"`
	Resultado
}

type DetalleOrden struct {
	OrdenID uint               `json:"ordenId"`
	Numero  string             `json:"numero"`
	Estado  string             `json:"estado"`
	Lineas  []LineaAlternativa `json:"lineas"`
	Total   Resultado          `json:"total"`
}

type ResumenDeteccion struct {
	Creadas      int                    `json:"creadas"`
	Actualizadas int                    `json:"actualizadas"`
	Omitidas     int                    `json:"omitidas"`
	Detectadas   []OportunidadDetectada `json:"detectadas"`
}

type Service struct {
	DB             *gorm.DB
	Ordenes        orden.Repository
	Comisiones     comision.Repository
	Bonificaciones bonificacion.Repository
	Oportunidades  OportunidadRepository
	Logger         *logrus.Logger

	ComisionDefecto float64
	MargenMinimo    float64
	Ahora           func() time.Time
}

func NewService(db *gorm.DB, logger *logrus.Logger, comisionDefecto, margenMinimo float64) *Service {
	return &Service{
		DB:              db,
		Ordenes:         orden.NewRepository(),
		Comisiones:      comision.NewRepository(),
		Bonificaciones:  bonificacion.NewRepository(),
		Oportunidades:   NewOportunidadRepository(),
		Logger:          logger,
		ComisionDefecto: comisionDefecto,
		MargenMinimo:    margenMinimo,
		Ahora:           time.Now,
	}
}

// tasas resuelve comisión y bonificación con las reglas cargadas una sola vez.
type tasas struct {
	comisiones []comision.ConfiguracionComision
	bonos      []bonificacion.BonificacionMedio
	acumulador *bonificacion.Acumulador
	defecto    float64
}

func (s *Service) cargarTasas(db *gorm.DB) (*tasas, error) {
	comisiones, err := s.Comisiones.Listar(db)
	if err != nil {
		return nil, err
	}
	bonos, err := s.Bonificaciones.Listar(db, true)
	if err != nil {
		return nil, err
	}
	return &tasas{
		comisiones: comisiones,
		bonos:      bonos,
		acumulador: bonificacion.NewAcumulador(db, s.Bonificaciones, s.Ahora()),
		defecto:    s.ComisionDefecto,
	}, nil
}

func (t *tasas) linea(a plan.Alternativa, fecha time.Time) (LineaAlternativa, error) {
	tc := comision.Resolver(t.comisiones, a.MedioID, a.ProveedorID, fecha, t.defecto)
	tb, err := bonificacion.Resolver(t.bonos, a.MedioID, a.ProveedorID, fecha, t.acumulador.Acumulado)
	if err != nil {
		return LineaAlternativa{}, err
	}
	r := Calcular(Entrada{
		Precio:           decimal.NewFromFloat(a.ValorTotal),
		Costo:            decimal.NewFromFloat(a.Costo),
		TasaComision:     decimal.NewFromFloat(tc.Tasa),
		TasaBonificacion: decimal.NewFromFloat(tb.Tasa),
	})
	return LineaAlternativa{
		AlternativaID:    a.ID,
		MedioID:          a.MedioID,
		SoporteID:        a.SoporteID,
		ProveedorID:      a.ProveedorID,
		TasaComision:     tc.Tasa,
		TasaBonificacion: tb.Tasa,
		Resultado:        r,
	}, nil
}

func (t *tasas) detalle(o orden.Orden) (DetalleOrden, error) {
	d := DetalleOrden{OrdenID: o.ID, Numero: o.Numero, Estado: o.Estado, Lineas: []LineaAlternativa{}}
	for _, a := range o.Alternativas {
		l, err := t.linea(a, o.FechaEmision)
		if err != nil {
			return DetalleOrden{}, err
		}
		d.Lineas = append(d.Lineas, l)
		d.Total = d.Total.Sumar(l.Resultado)
	}
	return d, nil
}

// RentabilidadOrden desglosa la rentabilidad de cada alternativa de la orden.
func (s *Service) RentabilidadOrden(ctx context.Context, ordenID uint) (*DetalleOrden, error) {
	db := s.DB.WithContext(ctx)
	o, err := s.Ordenes.BuscarPorID(db, ordenID)
	if err != nil {
		return nil, err
	}
	t, err := s.cargarTasas(db)
	if err != nil {
		return nil, err
	}
	d, err := t.detalle(*o)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// RentabilidadOrdenes calcula el total de cada orden. Las órdenes deben venir con
// sus alternativas cargadas.
func (s *Service) RentabilidadOrdenes(ctx context.Context, ordenes []orden.Orden) ([]DetalleOrden, error) {
	t, err := s.cargarTasas(s.DB.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]DetalleOrden, 0, len(ordenes))
	for _, o := range ordenes {
		d, err := t.detalle(o)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// DetectarOportunidades revisa órdenes emitidas con margen bajo y bonificaciones
// a punto de alcanzarse, y registra una oportunidad por cada hallazgo.
func (s *Service) DetectarOportunidades(ctx context.Context) (*ResumenDeteccion, error) {
	db := s.DB.WithContext(ctx)
	ahora := s.Ahora()

	ordenes, err := s.Ordenes.Listar(db, orden.Filtro{Estado: orden.EstadoEmitida, ConAlternativas: true})
	if err != nil {
		return nil, err
	}
	detalles, err := s.RentabilidadOrdenes(ctx, ordenes)
	if err != nil {
		return nil, err
	}

	var hallazgos []OportunidadDetectada
	margen := decimal.NewFromFloat(s.MargenMinimo)
	for _, d := range detalles {
		if d.Total.Precio.IsZero() || !d.Total.Porcentaje.LessThan(margen) {
			continue
		}
		objetivo := d.Total.Precio.Mul(margen).Div(cien)
		id := d.OrdenID
		hallazgos = append(hallazgos, OportunidadDetectada{
			Tipo:           TipoMargenBajo,
			Referencia:     fmt.Sprintf("orden:%d", d.OrdenID),
			OrdenID:        &id,
			Descripcion:    fmt.Sprintf("La orden %s rinde %s%%, bajo el mínimo de %s%%", d.Numero, d.Total.Porcentaje.StringFixed(2), margen.StringFixed(2)),
			MontoPotencial: objetivo.Sub(d.Total.RentabilidadNeta).Round(2).InexactFloat64(),
			DetectadaEn:    ahora,
		})
	}

	bonos, err := s.Bonificaciones.Listar(db, true)
	if err != nil {
		return nil, err
	}
	acum := bonificacion.NewAcumulador(db, s.Bonificaciones, ahora)
	for _, b := range bonos {
		if !b.VigenteEn(ahora) || b.MontoMinimo <= 0 {
			continue
		}
		v, err := acum.Acumulado(b)
		if err != nil {
			return nil, err
		}
		if v < b.MontoMinimo*umbralCercania || v >= b.MontoMinimo {
			continue
		}
		medioID := b.MedioID
		potencial := decimal.NewFromFloat(b.MontoMinimo).Mul(decimal.NewFromFloat(b.Tasa)).Div(cien).Round(2)
		hallazgos = append(hallazgos, OportunidadDetectada{
			Tipo:           TipoBonificacionCercana,
			Referencia:     fmt.Sprintf("bonificacion:%d", b.ID),
			ProveedorID:    b.ProveedorID,
			MedioID:        &medioID,
			Descripcion:    fmt.Sprintf("Faltan %.2f para alcanzar la bonificación de %.2f%% (acumulado %.2f de %.2f)", b.MontoMinimo-v, b.Tasa, v, b.MontoMinimo),
			MontoPotencial: potencial.InexactFloat64(),
			DetectadaEn:    ahora,
		})
	}

	res := &ResumenDeteccion{Detectadas: []OportunidadDetectada{}}
	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range hallazgos {
			accion, err := s.Oportunidades.Registrar(tx, &hallazgos[i])
			if err != nil {
				return err
			}
			switch accion {
			case Creada:
				res.Creadas++
			case Actualizada:
				res.Actualizadas++
			default:
				res.Omitidas++
				continue
			}
			res.Detectadas = append(res.Detectadas, hallazgos[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"module":       "rentabilidad",
		"creadas":      res.Creadas,
		"actualizadas": res.Actualizadas,
		"omitidas":     res.Omitidas,
	}).Info("detección de oportunidades terminada")
	return res, nil
}
