package usuario

import (
	"errors"

	"github.com/AgenciaMedios/api-agencia/internal/utils"
	"gorm.io/gorm"
)

// AsegurarAdmin crea el primer administrador si no existe un usuario con ese
// email. Retorna true cuando lo creó.
func AsegurarAdmin(db *gorm.DB, repo Repository, email, clave string) (bool, error) {
	if email == "" || clave == "" {
		return false, nil
	}
	_, err := repo.BuscarPorEmail(db, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	hash, err := utils.HashClave(clave)
	if err != nil {
		return false, err
	}
	u := &Usuario{Nombre: "Administrador", Email: email, Password: hash, IsAdmin: true, Activo: true}
	if err := repo.Salvar(db, u); err != nil {
		return false, err
	}
	return true, nil
}
