// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config reúne todas las variables de entorno usadas por la API.
type Config struct {
	Port string

	DatabaseURL      string
	DBHost           string
	DBPort           uint
	DBName           string
	DBUsername       string
	DBPassword       string
	DBSecretID       string
	DBSSLModeDisable bool

	CORSOrigins  []string
	RedisAddress string
	WebhookURL   string

	AuthPrivateKeyPath string
	AuthKID            string
	AuthIssuer         string
	AuthAudience       string

	AdminEmail    string
	AdminPassword string

	// Porcentajes (15 = 15%)
	ComisionDefault float64
	MargenMinimo    float64

	// Zona IANA con que se leen fechas de calendario (vigencias, rangos, días).
	ZonaHoraria string

	LogLevel string
}

const (
	defaultPort            = "8080"
	defaultDBPort          = 5432
	defaultCORSOrigins     = "http://localhost:3000,http://localhost:5173"
	defaultComisionDefault = 15
	defaultMargenMinimo    = 10
	defaultZonaHoraria     = "America/Santiago"
)

// Load lee el .env (si existe) y luego el entorno del proceso.
// Las variables ya definidas en el entorno tienen prioridad sobre el archivo.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", defaultPort),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           uint(getEnvUint("DB_PORT", defaultDBPort)),
		DBName:           getEnv("DB_NAME", "agencia"),
		DBUsername:       os.Getenv("DB_USERNAME"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBSecretID:       os.Getenv("DB_SECRET_ID"),
		DBSSLModeDisable: os.Getenv("DB_SSL_MODE_DISABLE") == "true",

		CORSOrigins:  ParseCSV(getEnv("CORS_ORIGINS", defaultCORSOrigins)),
		RedisAddress: os.Getenv("REDIS_ADDRESS"),
		WebhookURL:   os.Getenv("WEBHOOK_URL"),

		AuthPrivateKeyPath: os.Getenv("AUTH_RSA_PRIVATE_PATH"),
		AuthKID:            getEnv("AUTH_KID", "agencia-1"),
		AuthIssuer:         getEnv("AUTH_ISSUER", "api-agencia"),
		AuthAudience:       getEnv("AUTH_AUDIENCE", "agencia-web"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		ComisionDefault: getEnvFloat("COMISION_DEFAULT", defaultComisionDefault),
		MargenMinimo:    getEnvFloat("MARGEN_MINIMO", defaultMargenMinimo),

		ZonaHoraria: getEnv("ZONA_HORARIA", defaultZonaHoraria),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvUint(key string, def uint64) uint64 {
	v, err := strconv.ParseUint(os.Getenv(key), 10, 32)
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return v
}

// ParseCSV separa una lista "a, b,,c" en ["a","b","c"].
func ParseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
