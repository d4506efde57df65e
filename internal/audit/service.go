package audit

import (
	"restaurante-backend/internal/database"
	"restaurante-backend/internal/models"

	"github.com/sirupsen/logrus"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
}

// WriteLog registra una mutación. Un fallo aquí no debe abortar la operación
// que lo originó, solo se deja constancia en el log de la aplicación.
func WriteLog(opts LogOptions) {
	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		logrus.Errorf("No se pudo guardar el registro de auditoría: %v", err)
	}
}
