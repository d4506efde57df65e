package audit

import (
	"restaurante-backend/internal/database"
	"restaurante-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs (solo administradores)
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.AuditLog{}).Order("created_at desc")

		if entity := c.Query("entity_type"); entity != "" {
			query = query.Where("entity_type = ?", entity)
		}

		var logs []models.AuditLog
		if err := query.Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los registros de auditoría.")
		}
		return c.JSON(logs)
	}
}
