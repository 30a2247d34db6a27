package proveedor

import "gorm.io/gorm"

type Proveedor struct {
	gorm.Model
	Nombre   string `json:"nombre" gorm:"size:150;not null"`
	RUT      string `json:"rut" gorm:"size:20;uniqueIndex"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Activo   bool   `json:"activo"`
}

func (Proveedor) TableName() string { return "proveedores" }
