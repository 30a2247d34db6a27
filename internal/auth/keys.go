package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

var (
	keysMu sync.RWMutex

	privKey   *rsa.PrivateKey
	pubKeys   = map[string]*rsa.PublicKey{} // kid -> pub
	activeKID string
	issuer    string
	audience  string
)

// KeyConfig indica de dónde sale la llave RSA y los claims fijos del token.
type KeyConfig struct {
	PrivateKeyPath string
	KID            string
	Issuer         string
	Audience       string
}

// Inicializar carga la llave privada PEM (PKCS#1 o PKCS#8). Sin ruta genera una
// llave efímera y retorna efimera=true: los tokens no sobreviven a un reinicio.
func Inicializar(cfg KeyConfig) (efimera bool, err error) {
	if cfg.KID == "" || cfg.Issuer == "" || cfg.Audience == "" {
		return false, errors.New("faltan AUTH_KID/AUTH_ISSUER/AUTH_AUDIENCE")
	}
	if cfg.PrivateKeyPath == "" {
		pk, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return false, fmt.Errorf("generar llave: %w", err)
		}
		InicializarConClave(pk, cfg.KID, cfg.Issuer, cfg.Audience)
		return true, nil
	}

	b, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return false, fmt.Errorf("leer llave privada: %w", err)
	}
	pk, err := parsePrivateKey(b)
	if err != nil {
		return false, err
	}
	InicializarConClave(pk, cfg.KID, cfg.Issuer, cfg.Audience)
	return false, nil
}

// InicializarConClave registra una llave ya cargada (usado también por los tests).
func InicializarConClave(pk *rsa.PrivateKey, kid, iss, aud string) {
	keysMu.Lock()
	defer keysMu.Unlock()
	privKey = pk
	pubKeys = map[string]*rsa.PublicKey{kid: &pk.PublicKey}
	activeKID = kid
	issuer = iss
	audience = aud
}

func parsePrivateKey(b []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("pem decode private key failed")
	}
	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return k, nil
	}
	k8, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	pk, ok := k8.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not RSA")
	}
	return pk, nil
}

func getPriv() *rsa.PrivateKey {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return privKey
}

func getPub(kid string) (*rsa.PublicKey, bool) {
	keysMu.RLock()
	defer keysMu.RUnlock()
	p, ok := pubKeys[kid]
	return p, ok
}

func getKID() string {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return activeKID
}

func getIssuer() string {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return issuer
}

func getAudience() string {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return audience
}

func signMethod() jwt.SigningMethod { return jwt.SigningMethodRS256 }
