package bonificacion

import (
	"errors"
	"testing"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/orden"
	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"github.com/AgenciaMedios/api-agencia/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u(v uint) *uint { return &v }

func dia(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func fijo(valores map[uint]float64) AcumuladoFunc {
	return func(b BonificacionMedio) (float64, error) { return valores[b.ID], nil }
}

func TestResolver(t *testing.T) {
	bonos := []BonificacionMedio{
		{MedioID: 1, Tasa: 3, MontoMinimo: 1000, VigenciaDesde: dia("2025-01-01"), Activa: true},
		{MedioID: 1, ProveedorID: u(5), Tasa: 5, MontoMinimo: 5000, VigenciaDesde: dia("2025-01-01"), Activa: true},
		{MedioID: 2, Tasa: 9, MontoMinimo: 0, VigenciaDesde: dia("2025-01-01"), Activa: true},
	}
	for i := range bonos {
		bonos[i].ID = uint(i + 1)
	}
	fecha := dia("2025-05-01")

	res, err := Resolver(bonos, 1, 5, fecha, fijo(map[uint]float64{1: 2000, 2: 6000}))
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Tasa)
	assert.Equal(t, uint(2), *res.BonificacionID)

	// la específica no alcanza el mínimo: aplica la general del medio
	res, err = Resolver(bonos, 1, 5, fecha, fijo(map[uint]float64{1: 2000, 2: 4999}))
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Tasa)
	assert.Equal(t, 2000.0, res.Acumulado)

	res, err = Resolver(bonos, 1, 5, fecha, fijo(map[uint]float64{1: 10, 2: 10}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Tasa)
	assert.Nil(t, res.BonificacionID)

	res, err = Resolver(bonos, 3, 5, fecha, fijo(nil))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Tasa)

	res, err = Resolver(bonos, 1, 5, dia("2024-12-31"), fijo(map[uint]float64{1: 9999, 2: 9999}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Tasa, "fuera de vigencia")

	boom := errors.New("boom")
	_, err = Resolver(bonos, 2, 1, fecha, func(BonificacionMedio) (float64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}

func TestCostoAcumulado(t *testing.T) {
	db := testutil.NuevaDB(t, &plan.Alternativa{}, &orden.Orden{}, &BonificacionMedio{})
	repo := NewRepository()

	emitida := orden.Orden{Numero: "ORD-2025-001-1", Anio: 2025, Correlativo: 1, Version: 1, PlanID: 1, Estado: orden.EstadoEmitida, FechaEmision: dia("2025-03-01")}
	anulada := orden.Orden{Numero: "ORD-2025-002-1", Anio: 2025, Correlativo: 2, Version: 1, PlanID: 1, Estado: orden.EstadoAnulada, FechaEmision: dia("2025-03-02")}
	vieja := orden.Orden{Numero: "ORD-2024-001-1", Anio: 2024, Correlativo: 1, Version: 1, PlanID: 1, Estado: orden.EstadoEmitida, FechaEmision: dia("2024-06-01")}
	for _, o := range []*orden.Orden{&emitida, &anulada, &vieja} {
		require.NoError(t, db.Omit("Alternativas").Create(o).Error)
	}
	alts := []plan.Alternativa{
		{PlanID: 1, MedioID: 1, ProveedorID: 5, Costo: 1000, Consumida: true, OrdenID: &emitida.ID},
		{PlanID: 1, MedioID: 1, ProveedorID: 6, Costo: 300, Consumida: true, OrdenID: &emitida.ID},
		{PlanID: 1, MedioID: 2, ProveedorID: 5, Costo: 700, Consumida: true, OrdenID: &emitida.ID},
		{PlanID: 1, MedioID: 1, ProveedorID: 5, Costo: 5000, Consumida: true, OrdenID: &anulada.ID},
		{PlanID: 1, MedioID: 1, ProveedorID: 5, Costo: 2000, Consumida: true, OrdenID: &vieja.ID},
		{PlanID: 1, MedioID: 1, ProveedorID: 5, Costo: 9000},
	}
	require.NoError(t, db.Create(&alts).Error)

	b := BonificacionMedio{MedioID: 1, ProveedorID: u(5), Tasa: 4, MontoMinimo: 1000, VigenciaDesde: dia("2025-01-01"), Activa: true}
	require.NoError(t, repo.Crear(db, &b))

	total, err := repo.CostoAcumulado(db, b, dia("2025-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, total)

	b.ProveedorID = nil
	total, err = repo.CostoAcumulado(db, b, dia("2025-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 1300.0, total)

	total, err = repo.CostoAcumulado(db, b, dia("2025-02-01"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)

	acum := NewAcumulador(db, repo, dia("2025-12-31"))
	v, err := acum.Acumulado(b)
	require.NoError(t, err)
	assert.Equal(t, 1300.0, v)

	e := Avance(b, v)
	assert.True(t, e.Alcanzada)
	assert.InDelta(t, 130.0, e.Avance, 0.001)
}

func TestCostoAcumulado_UltimoDiaDeVigencia(t *testing.T) {
	db := testutil.NuevaDB(t, &plan.Alternativa{}, &orden.Orden{}, &BonificacionMedio{})
	repo := NewRepository()

	tarde := orden.Orden{Numero: "ORD-2025-001-1", Anio: 2025, Correlativo: 1, Version: 1, PlanID: 1, Estado: orden.EstadoEmitida,
		FechaEmision: time.Date(2025, 12, 31, 15, 0, 0, 0, time.UTC)}
	siguiente := orden.Orden{Numero: "ORD-2026-001-1", Anio: 2026, Correlativo: 1, Version: 1, PlanID: 1, Estado: orden.EstadoEmitida,
		FechaEmision: dia("2026-01-01")}
	for _, o := range []*orden.Orden{&tarde, &siguiente} {
		require.NoError(t, db.Omit("Alternativas").Create(o).Error)
	}
	require.NoError(t, db.Create(&[]plan.Alternativa{
		{PlanID: 1, MedioID: 1, ProveedorID: 5, Costo: 800, Consumida: true, OrdenID: &tarde.ID},
		{PlanID: 1, MedioID: 1, ProveedorID: 5, Costo: 300, Consumida: true, OrdenID: &siguiente.ID},
	}).Error)

	hasta := dia("2025-12-31")
	b := BonificacionMedio{MedioID: 1, Tasa: 4, MontoMinimo: 500, VigenciaDesde: dia("2025-01-01"), VigenciaHasta: &hasta, Activa: true}
	require.NoError(t, repo.Crear(db, &b))
	assert.True(t, b.VigenteEn(tarde.FechaEmision))

	total, err := repo.CostoAcumulado(db, b, dia("2026-02-01"))
	require.NoError(t, err)
	assert.Equal(t, 800.0, total)
}
