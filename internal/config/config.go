package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	RedisAddr   string
	RedisPass   string
	CORSOrigins string

	// Credenciales opcionales para crear el primer superusuario al arrancar.
	AdminUsername string
	AdminPassword string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=restaurante port=5432 sslmode=disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:     getEnv("REDIS_PASSWORD", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=restaurante port=5432 sslmode=disable" {
		logrus.Warn("DATABASE_DSN usa el valor por defecto, define tu propia conexión Postgres en producción")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		logrus.Warn("CORS_ALLOWED_ORIGINS usa el valor por defecto, define tu propio dominio en producción")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
