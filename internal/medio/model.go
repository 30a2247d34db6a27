package medio

import "gorm.io/gorm"

// Medio agrupa soportes de un mismo tipo (TV, radio, prensa, vía pública...).
type Medio struct {
	gorm.Model
	Nombre   string    `json:"nombre" gorm:"size:100;not null"`
	Codigo   string    `json:"codigo" gorm:"size:20;uniqueIndex"`
	Soportes []Soporte `json:"soportes,omitempty" gorm:"foreignKey:MedioID"`
}

// Soporte es el espacio concreto que se compra (un canal, una radio, un panel).
type Soporte struct {
	gorm.Model
	Nombre      string `json:"nombre" gorm:"size:150;not null"`
	MedioID     uint   `json:"medioId" gorm:"not null;index"`
	ProveedorID uint   `json:"proveedorId" gorm:"index"`
	Activo      bool   `json:"activo"`
}
