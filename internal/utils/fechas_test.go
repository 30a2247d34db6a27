package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func conZona(t *testing.T, loc *time.Location) {
	t.Helper()
	anterior := Zona
	Zona = loc
	t.Cleanup(func() { Zona = anterior })
}

func TestEnVigencia(t *testing.T) {
	desde := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	hasta := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, EnVigencia(time.Date(2025, 12, 31, 15, 0, 0, 0, time.UTC), desde, &hasta))
	assert.True(t, EnVigencia(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), desde, &hasta))
	assert.False(t, EnVigencia(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), desde, &hasta))
	assert.False(t, EnVigencia(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), desde, &hasta))
	assert.True(t, EnVigencia(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), desde, nil))
}

func TestDia_UsaZona(t *testing.T) {
	conZona(t, time.FixedZone("CLT", -3*3600))

	noche := time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", Dia(noche).Format(LayoutFecha))
	assert.True(t, FinDelDia(noche).Equal(time.Date(2025, 3, 11, 3, 0, 0, 0, time.UTC)))
}
