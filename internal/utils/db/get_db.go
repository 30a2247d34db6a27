package db

import (
	"github.com/AgenciaMedios/api-agencia/internal/config"
	"gorm.io/gorm"
)

// GetDB conecta usando la configuración cargada del entorno.
func GetDB(cfg config.Config) (*gorm.DB, error) {
	return ConnectDataBase(Parametros{
		URL:        cfg.DatabaseURL,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		Name:       cfg.DBName,
		Username:   cfg.DBUsername,
		Password:   cfg.DBPassword,
		SecretID:   cfg.DBSecretID,
		SSLDisable: cfg.DBSSLModeDisable,
	})
}
