package cliente

import "gorm.io/gorm"

type Cliente struct {
	gorm.Model
	Nombre      string `json:"nombre" gorm:"size:150;not null"`
	RazonSocial string `json:"razonSocial" gorm:"size:200"`
	RUT         string `json:"rut" gorm:"size:20;uniqueIndex"`
	Email       string `json:"email"`
	Telefono    string `json:"telefono"`
	Direccion   string `json:"direccion"`
	Activo      bool   `json:"activo"`
}
