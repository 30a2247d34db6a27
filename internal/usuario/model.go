package usuario

import (
	"gorm.io/gorm"
)

type Usuario struct {
	gorm.Model
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email" gorm:"uniqueIndex;size:255"`
	Password string `json:"-"`
	PerfilID uint   `json:"perfilId"`
	IsAdmin  bool   `json:"isAdmin"`
	Activo   bool   `json:"activo" gorm:"default:true"`
}
