package database

import (
	"restaurante-backend/internal/config"
	"restaurante-backend/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("No se pudo conectar a la base de datos: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logrus.Fatalf("Error en AutoMigrate: %v", err)
	}

	if err := Seed(DB, cfg); err != nil {
		logrus.Fatalf("Error en el seed inicial: %v", err)
	}

	logrus.Info("Conexión a la base de datos exitosa. Migración completada.")
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.AuthToken{},
		&models.Mesa{},
		&models.Pedido{},
		&models.AuditLog{},
	)
}

// Seed garantiza que existan los dos grupos conocidos y, si se configuró,
// el superusuario inicial.
func Seed(db *gorm.DB, cfg *config.Config) error {
	for _, name := range []string{models.GrupoAdministradores, models.GrupoEmpleados} {
		if err := db.FirstOrCreate(&models.Group{}, models.Group{Name: name}).Error; err != nil {
			return err
		}
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	db.Model(&models.User{}).Where("is_superuser = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	var grupo models.Group
	if err := db.Where("name = ?", models.GrupoAdministradores).First(&grupo).Error; err == nil {
		if err := db.Model(&admin).Association("Groups").Append(&grupo); err != nil {
			return err
		}
	}

	logrus.Infof("Superusuario inicial '%s' creado", cfg.AdminUsername)
	return nil
}
