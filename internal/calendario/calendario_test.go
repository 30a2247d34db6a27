package calendario

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/medio"
	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"github.com/AgenciaMedios/api-agencia/internal/testutil"
	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dia(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func soporte(id uint, nombre string, activo bool) medio.Soporte {
	s := medio.Soporte{Nombre: nombre, MedioID: 1, Activo: activo}
	s.ID = id
	return s
}

func alternativa(id, soporteID uint, fecha string, consumida bool) plan.Alternativa {
	a := plan.Alternativa{SoporteID: soporteID, MedioID: 1, Fecha: dia(fecha), Consumida: consumida}
	a.ID = id
	return a
}

func TestValidarRango(t *testing.T) {
	casos := []struct {
		desde, hasta string
		err          error
	}{
		{"2025-01-01", "2025-01-01", nil},
		{"2025-01-01", "2025-04-02", nil},
		{"2025-01-01", "2025-04-03", ErrRangoLargo},
		{"2025-02-01", "2025-01-31", ErrRango},
	}
	for _, c := range casos {
		err := ValidarRango(dia(c.desde), dia(c.hasta))
		if c.err == nil {
			assert.NoError(t, err, c.hasta)
		} else {
			assert.ErrorIs(t, err, c.err, c.hasta)
		}
	}
}

func TestConstruir(t *testing.T) {
	soportes := []medio.Soporte{
		soporte(2, "Radio Uno", true),
		soporte(1, "Canal 7", true),
		soporte(3, "Panel viejo", false),
		soporte(4, "Panel reservado", false),
	}
	alts := []plan.Alternativa{
		alternativa(10, 1, "2025-05-02", true),
		alternativa(11, 1, "2025-05-02", false),
		alternativa(12, 2, "2025-05-03", false),
		alternativa(13, 4, "2025-05-01", true),
		alternativa(14, 1, "2025-06-01", true),
	}

	dias, err := Construir(dia("2025-05-01"), dia("2025-05-03"), soportes, alts)
	require.NoError(t, err)
	require.Len(t, dias, 3)
	assert.Equal(t, "2025-05-01", dias[0].Fecha)

	// soportes 1, 2 y 4 (el inactivo con uso); orden por id
	require.Len(t, dias[0].Soportes, 3)
	assert.Equal(t, []uint{1, 2, 4}, []uint{dias[0].Soportes[0].SoporteID, dias[0].Soportes[1].SoporteID, dias[0].Soportes[2].SoporteID})
	assert.Equal(t, Ocupado, dias[0].Soportes[2].Estado)
	assert.Equal(t, Disponible, dias[0].Soportes[0].Estado)

	canal := dias[1].Soportes[0]
	assert.Equal(t, "Canal 7", canal.Soporte)
	assert.Equal(t, Ocupado, canal.Estado)
	assert.Equal(t, []uint{10}, canal.Consumidas)
	assert.Equal(t, []uint{11}, canal.Planificadas)

	assert.Equal(t, Planificado, dias[2].Soportes[1].Estado)
	assert.Equal(t, []uint{12}, dias[2].Soportes[1].Planificadas)

	_, err = Construir(dia("2025-01-01"), dia("2025-12-31"), soportes, nil)
	assert.ErrorIs(t, err, ErrRangoLargo)
}

func TestConstruir_DiasEnZonaConfigurada(t *testing.T) {
	anterior := utils.Zona
	clt := time.FixedZone("CLT", -3*3600)
	utils.Zona = clt
	t.Cleanup(func() { utils.Zona = anterior })

	// 2025-05-01 22:00 en CLT.
	a := plan.Alternativa{SoporteID: 1, MedioID: 1, Fecha: time.Date(2025, 5, 2, 1, 0, 0, 0, time.UTC)}
	a.ID = 7
	desde := time.Date(2025, 5, 1, 0, 0, 0, 0, clt)

	dias, err := Construir(desde, desde.AddDate(0, 0, 1), []medio.Soporte{soporte(1, "Canal 7", true)}, []plan.Alternativa{a})
	require.NoError(t, err)
	require.Len(t, dias, 2)
	assert.Equal(t, "2025-05-01", dias[0].Fecha)
	assert.Equal(t, []uint{7}, dias[0].Soportes[0].Planificadas)
	assert.Empty(t, dias[1].Soportes[0].Planificadas)
}

func TestHandler(t *testing.T) {
	db := testutil.NuevaDB(t, &medio.Soporte{}, &plan.Alternativa{})
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	require.NoError(t, db.Create(&[]medio.Soporte{
		{Nombre: "Canal 7", MedioID: 1, Activo: true},
		{Nombre: "Radio Uno", MedioID: 2, Activo: true},
	}).Error)
	crear := func(a plan.Alternativa) {
		require.NoError(t, db.Create(&a).Error)
	}
	crear(plan.Alternativa{PlanID: 1, MedioID: 1, SoporteID: 1, Fecha: dia("2025-05-02"), Cantidad: 1, Consumida: true})
	crear(plan.Alternativa{PlanID: 1, MedioID: 2, SoporteID: 2, Fecha: dia("2025-05-02"), Cantidad: 1})

	h := NewHandler(db, logger)
	get := func(q string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		h.Calendario(rr, httptest.NewRequest(http.MethodGet, "/calendario"+q, nil))
		return rr
	}

	rr := get("?desde=2025-05-01&hasta=2025-05-02&medioId=1")
	require.Equal(t, http.StatusOK, rr.Code)
	var dias []Dia
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dias))
	require.Len(t, dias, 2)
	require.Len(t, dias[1].Soportes, 1)
	assert.Equal(t, Ocupado, dias[1].Soportes[0].Estado)

	rr = get("?desde=2025-05-01&hasta=2025-05-02&soporteId=2")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dias))
	assert.Equal(t, Planificado, dias[1].Soportes[0].Estado)

	assert.Equal(t, http.StatusNotFound, get("?desde=2025-05-01&soporteId=99").Code)
	assert.Equal(t, http.StatusBadRequest, get("?desde=2025-01-01&hasta=2025-06-01").Code)
	assert.Equal(t, http.StatusBadRequest, get("?hasta=2025-06-01").Code)
	assert.Equal(t, http.StatusBadRequest, get("?desde=2025-05-10&hasta=2025-05-01").Code)
}
