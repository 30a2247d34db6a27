package permiso

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AgenciaMedios/api-agencia/internal/auth"
	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/AgenciaMedios/api-agencia/internal/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func nuevaDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.NuevaDB(t, &Permiso{}, &Perfil{})
	require.NoError(t, Sembrar(db))
	return db
}

func TestSembrar_Idempotente(t *testing.T) {
	db := nuevaDB(t)
	require.NoError(t, Sembrar(db))

	var n int64
	require.NoError(t, db.Model(&Permiso{}).Count(&n).Error)
	assert.Equal(t, int64(len(Catalogo())), n)

	repo := NewRepository()
	perfiles, err := repo.ListarPerfiles(db)
	require.NoError(t, err)
	require.Len(t, perfiles, 1)
	assert.Equal(t, PerfilAdministrador, perfiles[0].Nombre)
	assert.Len(t, perfiles[0].Permisos, len(Catalogo()))
}

func TestAsignarPermisosYConsultar(t *testing.T) {
	db := nuevaDB(t)
	repo := NewRepository()

	planificador := Perfil{Nombre: "Planificador"}
	require.NoError(t, repo.CrearPerfil(db, &planificador))

	var ver, crear Permiso
	require.NoError(t, db.Where("codigo = ?", OrdenesVer).First(&ver).Error)
	require.NoError(t, db.Where("codigo = ?", OrdenesCrear).First(&crear).Error)

	p, err := repo.AsignarPermisos(db, planificador.ID, []uint{ver.ID, crear.ID})
	require.NoError(t, err)
	assert.Len(t, p.Permisos, 2)

	codigos, err := repo.CodigosDePerfil(db, planificador.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{OrdenesCrear, OrdenesVer}, codigos)

	ok, err := repo.PerfilTienePermiso(db, planificador.ID, OrdenesCrear)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.PerfilTienePermiso(db, planificador.ID, OrdenesAnular)
	require.NoError(t, err)
	assert.False(t, ok)

	// reemplazo completo
	p, err = repo.AsignarPermisos(db, planificador.ID, []uint{ver.ID})
	require.NoError(t, err)
	assert.Len(t, p.Permisos, 1)
	codigos, err = repo.CodigosDePerfil(db, planificador.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{OrdenesVer}, codigos)
}

func TestConstruirMatriz(t *testing.T) {
	permisos := []Permiso{
		{Codigo: "ordenes.ver", Modulo: "ordenes"},
		{Codigo: "clientes.ver", Modulo: "clientes"},
	}
	perfiles := []Perfil{
		{Nombre: "Finanzas", Permisos: []Permiso{{Codigo: "ordenes.ver"}}},
		{Nombre: "Comercial", Permisos: []Permiso{{Codigo: "clientes.ver"}, {Codigo: "ordenes.ver"}}},
	}

	m := ConstruirMatriz(permisos, perfiles)
	assert.Equal(t, []string{"Comercial", "Finanzas"}, m.Perfiles)
	require.Len(t, m.Filas, 2)
	assert.Equal(t, "clientes.ver", m.Filas[0].Codigo)
	assert.Equal(t, map[string]bool{"Comercial": true, "Finanzas": false}, m.Filas[0].Perfiles)
	assert.Equal(t, map[string]bool{"Comercial": true, "Finanzas": true}, m.Filas[1].Perfiles)
}

func TestRequierePermiso(t *testing.T) {
	db := nuevaDB(t)
	repo := NewRepository()

	lector := Perfil{Nombre: "Lector"}
	require.NoError(t, repo.CrearPerfil(db, &lector))
	var ver Permiso
	require.NoError(t, db.Where("codigo = ?", ClientesVer).First(&ver).Error)
	_, err := repo.AsignarPermisos(db, lector.ID, []uint{ver.ID})
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	casos := []struct {
		nombre string
		id     auth.Identidad
		codigo string
		want   int
	}{
		{"sin sesión", auth.Identidad{}, ClientesVer, http.StatusUnauthorized},
		{"admin pasa", auth.Identidad{UserID: 1, IsAdmin: true}, OrdenesAnular, http.StatusNoContent},
		{"perfil con permiso", auth.Identidad{UserID: 2, PerfilID: lector.ID}, ClientesVer, http.StatusNoContent},
		{"perfil sin permiso", auth.Identidad{UserID: 2, PerfilID: lector.ID}, ClientesEditar, http.StatusForbidden},
		{"sin perfil", auth.Identidad{UserID: 3}, ClientesVer, http.StatusForbidden},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			h := RequierePermiso(db, repo, logger, c.codigo)(ok)
			req := httptest.NewRequest(http.MethodGet, "/clientes", nil)
			req = req.WithContext(auth.ConIdentidad(req.Context(), c.id))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, c.want, rr.Code)
		})
	}
}

type repoFallido struct {
	Repository
}

func (repoFallido) PerfilTienePermiso(*gorm.DB, uint, string) (bool, error) {
	return false, errors.New("conexión perdida")
}

func TestRequierePermiso_ErrorDeBaseSeRegistra(t *testing.T) {
	var buf bytes.Buffer
	logger := config.NewLogger("info")
	logger.SetOutput(&buf)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequierePermiso(nuevaDB(t), repoFallido{}, logger, ClientesVer)(ok)
	req := httptest.NewRequest(http.MethodGet, "/clientes", nil)
	req = req.WithContext(auth.ConIdentidad(req.Context(), auth.Identidad{UserID: 2, PerfilID: 4}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "permiso", entry["module"])
	assert.Equal(t, "RequierePermiso", entry["funcName"])
	assert.Equal(t, "conexión perdida", entry["msg"])
}
