package orden

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/cache"
	"github.com/AgenciaMedios/api-agencia/internal/notificacion"
	"github.com/AgenciaMedios/api-agencia/internal/numeracion"
	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxIntentosNumero = 3

// Locker serializa la asignación de números entre instancias.
type Locker interface {
	Bloquear(ctx context.Context, clave string) (func(), error)
}

type Notificador interface {
	Enviar(ctx context.Context, ev notificacion.Evento) error
}

// Invalidador borra resúmenes cacheados que dependen de las órdenes.
type Invalidador interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

type EmitirRequest struct {
	PlanID         uint   `json:"planId" validate:"required"`
	AlternativaIDs []uint `json:"alternativaIds"`
	Observaciones  string `json:"observaciones" validate:"max=1000"`
}

type VersionRequest struct {
	AlternativaIDs []uint `json:"alternativaIds"`
	Observaciones  string `json:"observaciones" validate:"max=1000"`
}

type Service struct {
	DB          *gorm.DB
	Repository  Repository
	Locker      Locker
	Notificador Notificador
	Invalidador Invalidador
	Logger      *logrus.Logger
	Ahora       func() time.Time
}

func NewService(db *gorm.DB, locker Locker, notificador Notificador, invalidador Invalidador, logger *logrus.Logger) *Service {
	return &Service{
		DB:          db,
		Repository:  NewRepository(),
		Locker:      locker,
		Notificador: notificador,
		Invalidador: invalidador,
		Logger:      logger,
		Ahora:       time.Now,
	}
}

// Emitir crea la orden, consume las alternativas y pasa el plan a ConOrden en una
// sola transacción. Si el número choca con otro se reintenta con el siguiente.
func (s *Service) Emitir(ctx context.Context, req EmitirRequest) (*Orden, error) {
	ids := sinRepetidos(req.AlternativaIDs)
	if len(ids) == 0 {
		return nil, ErrSinAlternativas
	}
	ahora := s.Ahora()

	o, err := s.emitirNumerada(ctx, req, ids, ahora)
	if err != nil {
		return nil, err
	}
	if o, err = s.Repository.BuscarPorID(s.DB.WithContext(ctx), o.ID); err != nil {
		return nil, err
	}

	s.despuesDeCambio(ctx, o, "orden.emitida", "Orden emitida")
	return o, nil
}

// emitirNumerada mantiene el lock de numeración solo mientras dura la transacción.
func (s *Service) emitirNumerada(ctx context.Context, req EmitirRequest, ids []uint, ahora time.Time) (*Orden, error) {
	anio := ahora.Year()
	release, err := s.bloquear(ctx, fmt.Sprintf("ordenes:numeracion:%d", anio))
	if err != nil {
		return nil, err
	}
	defer release()

	var o *Orden
	for intento := 1; intento <= maxIntentosNumero; intento++ {
		o, err = s.emitirTx(ctx, req, ids, anio, ahora)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.Logger.WithFields(logrus.Fields{
			"module":  "orden",
			"intento": intento,
			"anio":    anio,
		}).Warn("número de orden duplicado, reintentando")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrNumeroDuplicado
	}
	return o, err
}

func (s *Service) emitirTx(ctx context.Context, req EmitirRequest, ids []uint, anio int, ahora time.Time) (*Orden, error) {
	var o *Orden
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p plan.Plan
		if err := tx.First(&p, req.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNoEncontrado
			}
			return err
		}
		alts, err := s.validarAlternativas(tx, p.ID, ids, 0)
		if err != nil {
			return err
		}

		ultimo, err := s.Repository.UltimoNumero(tx, anio)
		if err != nil {
			return err
		}
		n := numeracion.Siguiente(ultimo, anio)

		o = &Orden{
			Numero:        n.String(),
			Anio:          n.Anio,
			Correlativo:   n.Correlativo,
			Version:       n.Version,
			PlanID:        p.ID,
			CampanaID:     p.CampanaID,
			ClienteID:     p.ClienteID,
			Estado:        EstadoEmitida,
			FechaEmision:  ahora,
			Observaciones: req.Observaciones,
			Alternativas:  alts,
		}
		if err := s.Repository.Crear(tx, o); err != nil {
			return err
		}
		if err := s.consumir(tx, o.ID, ids, 0); err != nil {
			return err
		}
		if err := s.Repository.RecalcularTotales(tx, o); err != nil {
			return err
		}
		return tx.Model(&plan.Plan{}).Where("id = ?", p.ID).Update("estado", plan.EstadoConOrden).Error
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// NuevaVersion reemplaza una orden Emitida por una versión nueva con el mismo
// número base. Sin alternativas en la solicitud conserva las actuales.
func (s *Service) NuevaVersion(ctx context.Context, id uint, req VersionRequest) (*Orden, error) {
	var nueva *Orden
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		anterior, err := s.Repository.BuscarPorID(tx, id)
		if err != nil {
			return err
		}
		if anterior.Estado != EstadoEmitida {
			return ErrEstadoInvalido
		}

		ids := sinRepetidos(req.AlternativaIDs)
		if len(ids) == 0 {
			for _, a := range anterior.Alternativas {
				ids = append(ids, a.ID)
			}
		}
		if len(ids) == 0 {
			return ErrSinAlternativas
		}
		alts, err := s.validarAlternativas(tx, anterior.PlanID, ids, anterior.ID)
		if err != nil {
			return err
		}

		max, err := s.Repository.MaxVersion(tx, anterior.Anio, anterior.Correlativo)
		if err != nil {
			return err
		}
		base := anterior.NumeroBase()
		base.Version = max
		n := numeracion.NuevaVersion(base)

		if err := s.Repository.CambiarEstado(tx, anterior.ID, EstadoReemplazada); err != nil {
			return err
		}
		obs := req.Observaciones
		if obs == "" {
			obs = anterior.Observaciones
		}
		nueva = &Orden{
			Numero:        n.String(),
			Anio:          n.Anio,
			Correlativo:   n.Correlativo,
			Version:       n.Version,
			PlanID:        anterior.PlanID,
			CampanaID:     anterior.CampanaID,
			ClienteID:     anterior.ClienteID,
			Estado:        EstadoEmitida,
			FechaEmision:  s.Ahora(),
			Observaciones: obs,
			Alternativas:  alts,
		}
		if err := s.Repository.Crear(tx, nueva); err != nil {
			return err
		}
		if err := s.Repository.LiberarAlternativas(tx, anterior.ID, ids); err != nil {
			return err
		}
		if err := s.consumir(tx, nueva.ID, ids, anterior.ID); err != nil {
			return err
		}
		return s.Repository.RecalcularTotales(tx, nueva)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrNumeroDuplicado
	}
	if err != nil {
		return nil, err
	}
	if nueva, err = s.Repository.BuscarPorID(s.DB.WithContext(ctx), nueva.ID); err != nil {
		return nil, err
	}

	s.despuesDeCambio(ctx, nueva, "orden.version", "Nueva versión de orden")
	return nueva, nil
}

// Anular libera las alternativas de la orden. Si el plan queda sin órdenes
// emitidas vuelve a Aprobado.
func (s *Service) Anular(ctx context.Context, id uint) (*Orden, error) {
	var o *Orden
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		o, err = s.Repository.BuscarPorID(tx, id)
		if err != nil {
			return err
		}
		if o.Estado != EstadoEmitida {
			return ErrEstadoInvalido
		}
		if err := s.Repository.LiberarAlternativas(tx, o.ID, nil); err != nil {
			return err
		}
		if err := s.Repository.CambiarEstado(tx, o.ID, EstadoAnulada); err != nil {
			return err
		}
		o.Estado = EstadoAnulada

		restantes, err := s.Repository.EmitidasDelPlan(tx, o.PlanID)
		if err != nil {
			return err
		}
		if restantes == 0 {
			return tx.Model(&plan.Plan{}).Where("id = ?", o.PlanID).Update("estado", plan.EstadoAprobado).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.despuesDeCambio(ctx, o, "orden.anulada", "Orden anulada")
	return o, nil
}

func (s *Service) validarAlternativas(tx *gorm.DB, planID uint, ids []uint, ordenActual uint) ([]plan.Alternativa, error) {
	alts, err := s.Repository.BuscarAlternativas(tx, ids)
	if err != nil {
		return nil, err
	}
	if len(alts) != len(ids) {
		return nil, ErrAlternativaNoEncontrada
	}
	for _, a := range alts {
		if a.PlanID != planID {
			return nil, fmt.Errorf("%w: alternativa %d", ErrAlternativaOtroPlan, a.ID)
		}
		if a.Consumida && (ordenActual == 0 || a.OrdenID == nil || *a.OrdenID != ordenActual) {
			return nil, fmt.Errorf("%w: alternativa %d", plan.ErrAlternativaConsumida, a.ID)
		}
	}
	return alts, nil
}

// consumir marca las alternativas y detecta si otra transacción se adelantó.
func (s *Service) consumir(tx *gorm.DB, ordenID uint, ids []uint, liberarDe uint) error {
	n, err := s.Repository.ConsumirAlternativas(tx, ordenID, ids, liberarDe)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return plan.ErrAlternativaConsumida
	}
	return nil
}

func (s *Service) bloquear(ctx context.Context, clave string) (func(), error) {
	if s.Locker == nil {
		return func() {}, nil
	}
	release, err := s.Locker.Bloquear(ctx, clave)
	if err != nil {
		return nil, fmt.Errorf("bloquear numeración: %w", err)
	}
	return release, nil
}

func (s *Service) despuesDeCambio(ctx context.Context, o *Orden, tipo, mensaje string) {
	if s.Invalidador != nil {
		if err := s.Invalidador.DeletePrefix(ctx, cache.PrefijoDashboard); err != nil {
			s.Logger.WithError(err).Warn("no se pudo invalidar el cache del dashboard")
		}
	}
	if s.Notificador == nil {
		return
	}
	ev := notificacion.Evento{
		Tipo:       tipo,
		Referencia: o.Numero,
		Mensaje:    mensaje,
		Datos: map[string]any{
			"ordenId":    o.ID,
			"planId":     o.PlanID,
			"clienteId":  o.ClienteID,
			"montoTotal": o.MontoTotal,
			"estado":     o.Estado,
		},
		Fecha: s.Ahora(),
	}
	if err := s.Notificador.Enviar(ctx, ev); err != nil {
		s.Logger.WithFields(logrus.Fields{"module": "orden", "numero": o.Numero}).WithError(err).Warn("webhook de orden falló")
	}
}

func sinRepetidos(ids []uint) []uint {
	vistos := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := vistos[id]; ok {
			continue
		}
		vistos[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
