package audit

import (
	"restaurante-backend/internal/auth"
	"restaurante-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Record escribe un registro de auditoría a nombre del usuario autenticado.
func Record(c *fiber.Ctx, entityType string, entityID uint, action models.AuditAction, description string) {
	u := auth.CurrentUser(c)
	if u == nil {
		return
	}
	WriteLog(LogOptions{
		UserID:      u.ID,
		UserName:    u.Username,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
	})
}
