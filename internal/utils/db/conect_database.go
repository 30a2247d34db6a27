package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Parametros de conexión a Postgres (Supabase u otro).
type Parametros struct {
	URL        string
	Host       string
	Port       uint
	Name       string
	Username   string
	Password   string
	SecretID   string
	SSLDisable bool
}

// ConnectDataBase abre la conexión con TranslateError activo, de modo que las
// violaciones de unicidad llegan como gorm.ErrDuplicatedKey.
func ConnectDataBase(p Parametros) (*gorm.DB, error) {
	dsn := p.URL
	if dsn == "" {
		username, password, err := retrieveCredentials(p.Username, p.Password, p.SecretID)
		if err != nil {
			return nil, err
		}
		var sslMode string
		if p.SSLDisable {
			sslMode = " sslmode=disable"
		}
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s", p.Host, username, password, p.Name, p.Port, sslMode)
	}

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("conectar a la base: %w", err)
	}
	return database, nil
}
