package permiso

import (
	"net/http"

	"github.com/AgenciaMedios/api-agencia/internal/auth"
	"github.com/AgenciaMedios/api-agencia/internal/config"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RequierePermiso deja pasar al admin o a usuarios cuyo perfil tenga el código.
func RequierePermiso(db *gorm.DB, repo Repository, logger *logrus.Logger, codigo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := auth.IdentidadDe(r.Context())
			if id.UserID == 0 {
				http.Error(w, "no autenticado", http.StatusUnauthorized)
				return
			}
			if id.IsAdmin {
				next.ServeHTTP(w, r)
				return
			}
			if id.PerfilID == 0 {
				http.Error(w, "acceso denegado", http.StatusForbidden)
				return
			}
			ok, err := repo.PerfilTienePermiso(db.WithContext(r.Context()), id.PerfilID, codigo)
			if err != nil {
				config.LogError(logger, "permiso", "RequierePermiso", "PerfilTienePermiso",
					map[string]any{"perfilId": id.PerfilID, "codigo": codigo}, err)
				http.Error(w, "error al verificar permisos", http.StatusInternalServerError)
				return
			}
			if !ok {
				http.Error(w, "acceso denegado: falta permiso "+codigo, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
