package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxUserID   ctxKey = "usuarioID"
	CtxPerfilID ctxKey = "perfilID"
	CtxIsAdmin  ctxKey = "isAdmin"
)

// Identidad es el usuario autenticado tal como viaja en el contexto.
type Identidad struct {
	UserID   uint
	PerfilID uint
	IsAdmin  bool
}

func MiddlewareAutenticacion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		claims, err := ParseAndValidate(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := ConIdentidad(r.Context(), Identidad{
			UserID:   claims.UserID,
			PerfilID: claims.PerfilID,
			IsAdmin:  claims.IsAdmin,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentidadDe(r.Context()).IsAdmin {
			http.Error(w, "Prohibido (solo admin)", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ConIdentidad inyecta la identidad en el contexto.
func ConIdentidad(ctx context.Context, id Identidad) context.Context {
	ctx = context.WithValue(ctx, CtxUserID, id.UserID)
	ctx = context.WithValue(ctx, CtxPerfilID, id.PerfilID)
	return context.WithValue(ctx, CtxIsAdmin, id.IsAdmin)
}

// IdentidadDe lee la identidad del contexto; valores cero si no hay sesión.
func IdentidadDe(ctx context.Context) Identidad {
	userID, _ := ctx.Value(CtxUserID).(uint)
	perfilID, _ := ctx.Value(CtxPerfilID).(uint)
	isAdmin, _ := ctx.Value(CtxIsAdmin).(bool)
	return Identidad{UserID: userID, PerfilID: perfilID, IsAdmin: isAdmin}
}
