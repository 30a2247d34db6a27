package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/cache"
	"github.com/AgenciaMedios/api-agencia/internal/cliente"
	"github.com/AgenciaMedios/api-agencia/internal/orden"
	"github.com/AgenciaMedios/api-agencia/internal/rentabilidad"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const TTLResumen = 60 * time.Second

// Almacen es la parte del cache que usa el dashboard.
type Almacen interface {
	GetObject(ctx context.Context, key string, dest any) (bool, error)
	SetObject(ctx context.Context, key string, obj any, exp time.Duration) error
}

type Consulta struct {
	Desde   time.Time
	Hasta   time.Time // inclusive
	Agrupar string
}

func (c Consulta) clave() string {
	return fmt.Sprintf("%srentabilidad:%s:%s:%s", cache.PrefijoDashboard,
		c.Desde.Format("2006-01-02"), c.Hasta.Format("2006-01-02"), c.Agrupar)
}

type Service struct {
	DB           *gorm.DB
	Rentabilidad *rentabilidad.Service
	Ordenes      orden.Repository
	Clientes     cliente.Repository
	Cache        Almacen
	Logger       *logrus.Logger
	Ahora        func() time.Time
}

func NewService(db *gorm.DB, rent *rentabilidad.Service, almacen Almacen, logger *logrus.Logger) *Service {
	return &Service{
		DB:           db,
		Rentabilidad: rent,
		Ordenes:      orden.NewRepository(),
		Clientes:     cliente.NewRepository(),
		Cache:        almacen,
		Logger:       logger,
		Ahora:        time.Now,
	}
}

// Resumen agrega la rentabilidad de las órdenes emitidas en [Desde, Hasta].
// Con cache configurado el resultado se reutiliza durante TTLResumen.
func (s *Service) Resumen(ctx context.Context, c Consulta) (*Resumen, error) {
	c.Desde, c.Hasta = utils.Dia(c.Desde), utils.Dia(c.Hasta)
	key := c.clave()
	if s.Cache != nil {
		var cached Resumen
		ok, err := s.Cache.GetObject(ctx, key, &cached)
		if err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("leer cache del dashboard")
		} else if ok {
			return &cached, nil
		}
	}

	var (
		ordenes  []orden.Orden
		detalles []rentabilidad.DetalleOrden
		abiertas int64
	)
	hasta := utils.FinDelDia(c.Hasta)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ordenes, err = s.Ordenes.Listar(s.DB.WithContext(gctx), orden.Filtro{
			Estado:          orden.EstadoEmitida,
			Desde:           &c.Desde,
			Hasta:           &hasta,
			ConAlternativas: true,
		})
		if err != nil {
			return err
		}
		detalles, err = s.Rentabilidad.RentabilidadOrdenes(gctx, ordenes)
		return err
	})
	g.Go(func() error {
		var err error
		abiertas, err = s.Rentabilidad.Oportunidades.ContarAbiertas(s.DB.WithContext(gctx))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buckets, err := Agrupar(ordenes, detalles, c.Agrupar)
	if err != nil {
		return nil, err
	}
	if c.Agrupar == PorCliente {
		if err := s.etiquetarClientes(ctx, buckets); err != nil {
			return nil, err
		}
	}
	n, total := totalizar(buckets)
	res := &Resumen{
		Desde:                 c.Desde.Format("2006-01-02"),
		Hasta:                 c.Hasta.Format("2006-01-02"),
		Agrupar:               c.Agrupar,
		Buckets:               buckets,
		Ordenes:               n,
		Total:                 total,
		OportunidadesAbiertas: abiertas,
		GeneradoEn:            s.Ahora(),
	}

	if s.Cache != nil {
		if err := s.Cache.SetObject(ctx, key, res, TTLResumen); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("guardar cache del dashboard")
		}
	}
	return res, nil
}

func (s *Service) etiquetarClientes(ctx context.Context, buckets []Bucket) error {
	ids := make([]uint, 0, len(buckets))
	for _, b := range buckets {
		id, _ := strconv.ParseUint(b.Clave, 10, 64)
		ids = append(ids, uint(id))
	}
	clientes, err := s.Clientes.BuscarPorIDs(s.DB.WithContext(ctx), ids)
	if err != nil {
		return err
	}
	nombres := make(map[string]string, len(clientes))
	for _, c := range clientes {
		nombres[strconv.FormatUint(uint64(c.ID), 10)] = c.Nombre
	}
	for i := range buckets {
		buckets[i].Etiqueta = nombres[buckets[i].Clave]
	}
	return nil
}
