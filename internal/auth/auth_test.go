package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iniciarLlave(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	InicializarConClave(pk, "kid-test", "api-agencia", "agencia-web")
	return pk
}

func TestGenerateAndValidate(t *testing.T) {
	iniciarLlave(t)

	tok, err := GenerateAccessToken(5, 2, false)
	require.NoError(t, err)

	c, err := ParseAndValidate(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(5), c.UserID)
	assert.Equal(t, uint(2), c.PerfilID)
	assert.False(t, c.IsAdmin)
}

func TestParseAndValidate_Rechaza(t *testing.T) {
	pk := iniciarLlave(t)

	t.Run("expirado", func(t *testing.T) {
		claims := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "api-agencia",
			Audience:  []string{"agencia-web"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		tok.Header["kid"] = "kid-test"
		raw, err := tok.SignedString(pk)
		require.NoError(t, err)
		_, err = ParseAndValidate(raw)
		assert.Error(t, err)
	})

	t.Run("otra audience", func(t *testing.T) {
		claims := &Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "api-agencia",
			Audience:  []string{"otro"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		tok.Header["kid"] = "kid-test"
		raw, err := tok.SignedString(pk)
		require.NoError(t, err)
		_, err = ParseAndValidate(raw)
		assert.Error(t, err)
	})

	t.Run("kid desconocido", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{})
		tok.Header["kid"] = "otro"
		raw, err := tok.SignedString(pk)
		require.NoError(t, err)
		_, err = ParseAndValidate(raw)
		assert.Error(t, err)
	})
}

func TestMiddlewareAutenticacion(t *testing.T) {
	iniciarLlave(t)

	var vista Identidad
	h := MiddlewareAutenticacion(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		vista = IdentidadDe(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	tok, err := GenerateAccessToken(9, 3, true)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, Identidad{UserID: 9, PerfilID: 3, IsAdmin: true}, vista)
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
	h.ServeHTTP(rr, req.WithContext(ConIdentidad(req.Context(), Identidad{UserID: 1})))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(ConIdentidad(req.Context(), Identidad{UserID: 1, IsAdmin: true})))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestJWKSHandler(t *testing.T) {
	iniciarLlave(t)
	rr := httptest.NewRecorder()
	JWKSHandler(rr, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Keys []jwk `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, "kid-test", body.Keys[0].Kid)
	assert.Equal(t, "RS256", body.Keys[0].Alg)
}

func TestInicializar_SinRutaEsEfimera(t *testing.T) {
	efimera, err := Inicializar(KeyConfig{KID: "k", Issuer: "i", Audience: "a"})
	require.NoError(t, err)
	assert.True(t, efimera)

	_, err = Inicializar(KeyConfig{})
	assert.Error(t, err)
}
