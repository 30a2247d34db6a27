package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"

	"github.com/AgenciaMedios/api-agencia/internal/utils"
)

type jwk struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

func publicarLlave(kid string, pub *rsa.PublicKey) jwk {
	b64 := base64.RawURLEncoding.EncodeToString
	return jwk{
		Kty: "RSA",
		Alg: signMethod().Alg(),
		Use: "sig",
		Kid: kid,
		N:   b64(pub.N.Bytes()),
		E:   b64(big.NewInt(int64(pub.E)).Bytes()),
	}
}

// GET /.well-known/jwks.json
func JWKSHandler(w http.ResponseWriter, r *http.Request) {
	kid := getKID()
	pub, ok := getPub(kid)
	if !ok || pub == nil {
		http.Error(w, "jwks no disponible", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	utils.WriteJSON(w, http.StatusOK, jwkSet{Keys: []jwk{publicarLlave(kid, pub)}})
}
