package rentabilidad

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AgenciaMedios/api-agencia/internal/bonificacion"
	"github.com/AgenciaMedios/api-agencia/internal/comision"
	"github.com/AgenciaMedios/api-agencia/internal/orden"
	"github.com/AgenciaMedios/api-agencia/internal/plan"
	"github.com/AgenciaMedios/api-agencia/internal/testutil"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dia(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func u(v uint) *uint { return &v }

func crearOrden(t *testing.T, db *gorm.DB, numero, estado string, fecha time.Time, alts ...plan.Alternativa) orden.Orden {
	t.Helper()
	require.NoError(t, db.Create(&alts).Error)
	o := orden.Orden{Numero: numero, PlanID: 1, Estado: estado, FechaEmision: fecha, Alternativas: alts}
	require.NoError(t, db.Omit("Alternativas.*").Create(&o).Error)
	if estado == orden.EstadoEmitida {
		for _, a := range alts {
			require.NoError(t, db.Model(&plan.Alternativa{}).Where("id = ?", a.ID).
				Updates(map[string]any{"consumida": true, "orden_id": o.ID}).Error)
		}
	}
	return o
}

type escenario struct {
	svc            *Service
	ordenA, ordenB orden.Orden
	bono           bonificacion.BonificacionMedio
}

func nuevoEscenario(t *testing.T) *escenario {
	t.Helper()
	db := testutil.NuevaDB(t,
		&plan.Alternativa{}, &orden.Orden{},
		&comision.ConfiguracionComision{}, &bonificacion.BonificacionMedio{}, &OportunidadDetectada{},
	)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewService(db, logger, 15, 10)
	svc.Ahora = func() time.Time { return dia("2025-06-01") }

	require.NoError(t, db.Create(&[]comision.ConfiguracionComision{
		{Tasa: 15, VigenciaDesde: dia("2025-01-01"), Activa: true},
		{MedioID: u(1), ProveedorID: u(5), Tasa: 10, VigenciaDesde: dia("2025-01-01"), Activa: true},
	}).Error)

	bono := bonificacion.BonificacionMedio{MedioID: 1, ProveedorID: u(5), Tasa: 5, MontoMinimo: 1000, VigenciaDesde: dia("2025-01-01"), Activa: true}
	require.NoError(t, db.Create(&bono).Error)

	e := &escenario{svc: svc, bono: bono}
	e.ordenA = crearOrden(t, db, "ORD-2025-001-1", orden.EstadoEmitida, dia("2025-03-01"),
		plan.Alternativa{PlanID: 1, MedioID: 1, ProveedorID: 5, Cantidad: 1, ValorUnitario: 1000, Costo: 850},
		plan.Alternativa{PlanID: 1, MedioID: 2, ProveedorID: 6, Cantidad: 1, ValorUnitario: 500, Costo: 480},
	)
	e.ordenB = crearOrden(t, db, "ORD-2025-002-1", orden.EstadoEmitida, dia("2025-04-01"),
		plan.Alternativa{PlanID: 1, MedioID: 2, ProveedorID: 6, Cantidad: 1, ValorUnitario: 1000, Costo: 950},
	)
	crearOrden(t, db, "ORD-2025-003-1", orden.EstadoAnulada, dia("2025-04-02"),
		plan.Alternativa{PlanID: 1, MedioID: 2, ProveedorID: 6, Cantidad: 1, ValorUnitario: 100, Costo: 100},
	)
	return e
}

func TestRentabilidadOrden(t *testing.T) {
	e := nuevoEscenario(t)

	d, err := e.svc.RentabilidadOrden(context.Background(), e.ordenA.ID)
	require.NoError(t, err)
	require.Len(t, d.Lineas, 2)

	assert.Equal(t, 10.0, d.Lineas[0].TasaComision)
	assert.Equal(t, 0.0, d.Lineas[0].TasaBonificacion, "acumulado 850 no alcanza 1000")
	assertDec(t, "150", d.Lineas[0].RentabilidadNeta, "neta a1")
	assert.Equal(t, 15.0, d.Lineas[1].TasaComision)
	assertDec(t, "20", d.Lineas[1].RentabilidadNeta, "neta a2")

	assertDec(t, "1500", d.Total.Precio, "precio")
	assertDec(t, "170", d.Total.RentabilidadNeta, "neta")
	assertDec(t, "11.33", d.Total.Porcentaje, "porcentaje")

	_, err = e.svc.RentabilidadOrden(context.Background(), 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRentabilidadOrden_BonificacionAlcanzada(t *testing.T) {
	e := nuevoEscenario(t)
	crearOrden(t, e.svc.DB, "ORD-2025-004-1", orden.EstadoEmitida, dia("2025-05-01"),
		plan.Alternativa{PlanID: 1, MedioID: 1, ProveedorID: 5, Cantidad: 1, ValorUnitario: 300, Costo: 200},
	)

	d, err := e.svc.RentabilidadOrden(context.Background(), e.ordenA.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d.Lineas[0].TasaBonificacion)
	assertDec(t, "42.5", d.Lineas[0].Bonificacion, "bonificacion")
}

func TestDetectarOportunidades(t *testing.T) {
	e := nuevoEscenario(t)
	ctx := context.Background()

	res, err := e.svc.DetectarOportunidades(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Creadas)
	require.Len(t, res.Detectadas, 2)

	porTipo := map[string]OportunidadDetectada{}
	for _, o := range res.Detectadas {
		porTipo[o.Tipo] = o
	}
	margen := porTipo[TipoMargenBajo]
	assert.Equal(t, "orden:2", margen.Referencia)
	require.NotNil(t, margen.OrdenID)
	assert.Equal(t, e.ordenB.ID, *margen.OrdenID)
	assert.Equal(t, 50.0, margen.MontoPotencial)

	cercana := porTipo[TipoBonificacionCercana]
	assert.Equal(t, "bonificacion:1", cercana.Referencia)
	assert.Equal(t, 50.0, cercana.MontoPotencial)
	assert.Equal(t, uint(5), *cercana.ProveedorID)

	// idempotente
	res, err = e.svc.DetectarOportunidades(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Creadas)
	assert.Equal(t, 2, res.Actualizadas)

	var n int64
	require.NoError(t, e.svc.DB.Model(&OportunidadDetectada{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)

	// una descartada no se reabre
	_, err = e.svc.Oportunidades.CambiarEstado(e.svc.DB, cercana.ID, EstadoDescartada)
	require.NoError(t, err)
	res, err = e.svc.DetectarOportunidades(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Actualizadas)
	assert.Equal(t, 1, res.Omitidas)

	abiertas, err := e.svc.Oportunidades.ContarAbiertas(e.svc.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), abiertas)
}

func TestHandler(t *testing.T) {
	e := nuevoEscenario(t)
	h := NewHandler(e.svc)
	r := mux.NewRouter()
	r.HandleFunc("/ordenes/{id}/rentabilidad", h.Orden).Methods(http.MethodGet)
	r.HandleFunc("/rentabilidad/simular", h.Simular).Methods(http.MethodPost)
	r.HandleFunc("/rentabilidad/oportunidades/detectar", h.Detectar).Methods(http.MethodPost)
	r.HandleFunc("/rentabilidad/oportunidades", h.ListarOportunidades).Methods(http.MethodGet)
	r.HandleFunc("/rentabilidad/oportunidades/{id}/estado", h.CambiarEstado).Methods(http.MethodPatch)

	hacer := func(metodo, ruta, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(metodo, ruta, bytes.NewBufferString(body)))
		return rr
	}

	rr := hacer(http.MethodPost, "/rentabilidad/simular", `{"precio":"1000","costo":"700","tasaComision":"15","tasaBonificacion":"5"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var sim Resultado
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sim))
	assertDec(t, "335", sim.RentabilidadNeta, "neta")
	assert.Equal(t, http.StatusBadRequest, hacer(http.MethodPost, "/rentabilidad/simular", `{"precio":-1}`).Code)

	assert.Equal(t, http.StatusOK, hacer(http.MethodGet, "/ordenes/1/rentabilidad", "").Code)
	assert.Equal(t, http.StatusNotFound, hacer(http.MethodGet, "/ordenes/77/rentabilidad", "").Code)

	require.Equal(t, http.StatusOK, hacer(http.MethodPost, "/rentabilidad/oportunidades/detectar", "").Code)
	var list []OportunidadDetectada
	require.NoError(t, json.Unmarshal(hacer(http.MethodGet, "/rentabilidad/oportunidades?estado=Nueva", "").Body.Bytes(), &list))
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusOK, hacer(http.MethodPatch, "/rentabilidad/oportunidades/1/estado", `{"estado":"Revisada"}`).Code)
	assert.Equal(t, http.StatusBadRequest, hacer(http.MethodPatch, "/rentabilidad/oportunidades/1/estado", `{"estado":"Otra"}`).Code)
	assert.Equal(t, http.StatusNotFound, hacer(http.MethodPatch, "/rentabilidad/oportunidades/9/estado", `{"estado":"Revisada"}`).Code)
}
