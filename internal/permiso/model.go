package permiso

import (
	"time"

	"gorm.io/gorm"
)

// Permiso es una acción habilitable sobre un módulo (ej. "ordenes.crear").
type Permiso struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Codigo      string `gorm:"size:80;uniqueIndex;not null" json:"codigo"`
	Modulo      string `gorm:"size:50;not null;index" json:"modulo"`
	Descripcion string `gorm:"size:255" json:"descripcion"`
}

// Perfil agrupa permisos; cada usuario tiene uno.
type Perfil struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nombre      string    `gorm:"size:100;uniqueIndex;not null" json:"nombre"`
	Descripcion string    `gorm:"size:255" json:"descripcion"`
	Permisos    []Permiso `gorm:"many2many:perfil_permisos;" json:"permisos"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Perfil) TableName() string { return "perfiles" }

// Migrate crea las tablas de permisos, perfiles y la tabla puente.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Permiso{}, &Perfil{})
}
