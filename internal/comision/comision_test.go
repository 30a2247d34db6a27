package comision

import (
	"testing"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u(v uint) *uint { return &v }

func dia(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestResolver_Especificidad(t *testing.T) {
	desde := dia("2025-01-01")
	configs := []ConfiguracionComision{
		{Tasa: 12, VigenciaDesde: desde, Activa: true},
		{MedioID: u(1), Tasa: 14, VigenciaDesde: desde, Activa: true},
		{ProveedorID: u(5), Tasa: 16, VigenciaDesde: desde, Activa: true},
		{MedioID: u(1), ProveedorID: u(5), Tasa: 18, VigenciaDesde: desde, Activa: true},
	}
	for i := range configs {
		configs[i].ID = uint(i + 1)
	}
	fecha := dia("2025-06-01")

	casos := []struct {
		nombre           string
		medio, proveedor uint
		want             float64
	}{
		{"medio y proveedor", 1, 5, 18},
		{"solo proveedor", 2, 5, 16},
		{"solo medio", 1, 9, 14},
		{"global", 3, 9, 12},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.want, Resolver(configs, c.medio, c.proveedor, fecha, 15).Tasa)
		})
	}

	res := Resolver(configs, 1, 5, fecha, 15)
	require.NotNil(t, res.ConfiguracionID)
	assert.Equal(t, uint(4), *res.ConfiguracionID)
}

func TestResolver_VigenciaYDefecto(t *testing.T) {
	hasta := dia("2025-03-31")
	configs := []ConfiguracionComision{
		{MedioID: u(1), Tasa: 20, VigenciaDesde: dia("2025-01-01"), VigenciaHasta: &hasta, Activa: true},
		{MedioID: u(1), Tasa: 22, VigenciaDesde: dia("2025-01-01"), Activa: false},
		{MedioID: u(1), Tasa: 10, VigenciaDesde: dia("2025-02-01"), Activa: true},
	}

	assert.Equal(t, 10.0, Resolver(configs, 1, 0, dia("2025-03-01"), 15).Tasa, "empate: gana la vigencia más reciente")
	assert.Equal(t, 20.0, Resolver(configs, 1, 0, dia("2025-01-15"), 15).Tasa)
	assert.Equal(t, 10.0, Resolver(configs, 1, 0, dia("2025-05-01"), 15).Tasa)

	res := Resolver(configs, 2, 0, dia("2025-05-01"), 15)
	assert.Equal(t, 15.0, res.Tasa)
	assert.Nil(t, res.ConfiguracionID)
	assert.Equal(t, 15.0, Resolver(nil, 1, 1, dia("2024-01-01"), 15).Tasa)
}

func TestRepository_VigentesEn(t *testing.T) {
	db := testutil.NuevaDB(t, &ConfiguracionComision{})
	repo := NewRepository()
	hasta := dia("2025-06-30")
	for _, c := range []ConfiguracionComision{
		{Tasa: 12, VigenciaDesde: dia("2025-01-01"), Activa: true},
		{Tasa: 13, VigenciaDesde: dia("2025-01-01"), VigenciaHasta: &hasta, Activa: true},
		{Tasa: 14, VigenciaDesde: dia("2025-08-01"), Activa: true},
		{Tasa: 15, VigenciaDesde: dia("2025-01-01"), Activa: false},
	} {
		c := c
		require.NoError(t, repo.Crear(db, &c))
	}

	list, err := repo.VigentesEn(db, dia("2025-07-15"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 12.0, list[0].Tasa)

	list, err = repo.VigentesEn(db, dia("2025-06-30"))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestVigencia_UltimoDiaCompleto(t *testing.T) {
	db := testutil.NuevaDB(t, &ConfiguracionComision{})
	repo := NewRepository()
	hasta := dia("2025-12-31")
	c := ConfiguracionComision{MedioID: u(1), Tasa: 20, VigenciaDesde: dia("2025-01-01"), VigenciaHasta: &hasta, Activa: true}
	require.NoError(t, repo.Crear(db, &c))

	tarde := time.Date(2025, 12, 31, 15, 0, 0, 0, time.UTC)
	assert.True(t, c.VigenteEn(tarde))
	assert.False(t, c.VigenteEn(dia("2026-01-01")))

	list, err := repo.VigentesEn(db, tarde)
	require.NoError(t, err)
	assert.Equal(t, 20.0, Resolver(list, 1, 0, tarde, 15).Tasa)

	list, err = repo.VigentesEn(db, dia("2026-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 15.0, Resolver(list, 1, 0, dia("2026-01-01"), 15).Tasa)
}
