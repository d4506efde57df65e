package main

import (
	"restaurante-backend/internal/config"
	"restaurante-backend/internal/database"
	"restaurante-backend/internal/logger"
	"restaurante-backend/internal/router"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		logrus.Warnf("No se encontró archivo .env: %v", err)
	}

	cfg := config.Load()
	database.Init(cfg)
	database.InitRedis(cfg)

	app := router.Setup(cfg)

	logrus.Infof("Servidor escuchando en el puerto %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
