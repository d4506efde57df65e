package database

import (
	"context"

	"restaurante-backend/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis guarda el estado de sesión del lado del servidor. El token de
// autenticación vive en Postgres; aquí solo viven las sesiones.
var Redis *redis.Client

func InitRedis(cfg *config.Config) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	if err := Redis.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("No se pudo conectar a Redis: %v", err)
	}

	logrus.Info("Conexión a Redis exitosa.")
}
