package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims del access token: usuario, perfil (para permisos) y flag de admin.
type Claims struct {
	UserID   uint `json:"userId"`
	PerfilID uint `json:"perfilId"`
	IsAdmin  bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// AccessTTL es la vida del access token. No hay refresh: al expirar se vuelve a hacer login.
const AccessTTL = 8 * time.Hour

// GenerateAccessToken firma un JWT RS256 con kid, iss, aud, iat, nbf y jti.
func GenerateAccessToken(userID, perfilID uint, isAdmin bool) (string, error) {
	priv := getPriv()
	if priv == nil {
		return "", errors.New("llave privada no inicializada")
	}

	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		PerfilID: perfilID,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    getIssuer(),
			Audience:  []string{getAudience()},
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			ID:        fmt.Sprintf("%d-%d", userID, now.UnixNano()),
		},
	}

	tok := jwt.NewWithClaims(signMethod(), claims)
	tok.Header["kid"] = getKID()
	return tok.SignedString(priv)
}

// ParseAndValidate valida firma, iss, aud y exp.
func ParseAndValidate(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(getIssuer()),
		jwt.WithAudience(getAudience()),
		jwt.WithExpirationRequired(),
	)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		k, _ := t.Header["kid"].(string)
		if k == "" {
			return nil, errors.New("kid ausente")
		}
		pub, ok := getPub(k)
		if !ok {
			return nil, errors.New("kid desconocido")
		}
		return pub, nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("claims inválidas")
	}
	if !slices.Contains(c.Audience, getAudience()) {
		return nil, errors.New("audience inválida")
	}
	return c, nil
}
