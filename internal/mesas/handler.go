package mesas

import (
	"fmt"
	"time"

	"restaurante-backend/internal/audit"
	"restaurante-backend/internal/crud"
	"restaurante-backend/internal/database"
	"restaurante-backend/internal/models"
	"restaurante-backend/internal/pedidos"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MesaResponse struct {
	ID            uint              `json:"id"`
	Numero        uint              `json:"numero"`
	Capacidad     uint              `json:"capacidad"`
	Estado        models.MesaEstado `json:"estado"`
	EstadoDisplay string            `json:"estado_display"`
	TotalPedidos  int64             `json:"total_pedidos"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type CreateMesaRequest struct {
	Numero    uint               `json:"numero"`
	Capacidad uint               `json:"capacidad"`
	Estado    *models.MesaEstado `json:"estado"`
}

type UpdateMesaRequest struct {
	Numero    *uint              `json:"numero"`
	Capacidad *uint              `json:"capacidad"`
	Estado    *models.MesaEstado `json:"estado"`
}

type EstadisticaEstado struct {
	Estado   models.PedidoEstado `json:"estado"`
	Cantidad int64               `json:"cantidad"`
	Total    float64             `json:"total"`
}

type MesaPedidosResponse struct {
	ID                    uint                     `json:"id"`
	Numero                uint                     `json:"numero"`
	Capacidad             uint                     `json:"capacidad"`
	Estado                models.MesaEstado        `json:"estado"`
	EstadoDisplay         string                   `json:"estado_display"`
	Pedidos               []pedidos.PedidoResponse `json:"pedidos"`
	TotalPedidos          int64                    `json:"total_pedidos"`
	TotalFacturado        float64                  `json:"total_facturado"`
	EstadisticasPorEstado []EstadisticaEstado      `json:"estadisticas_por_estado"`
	CreatedAt             time.Time                `json:"created_at"`
	UpdatedAt             time.Time                `json:"updated_at"`
}

func serialize(m *models.Mesa) MesaResponse {
	var total int64
	database.DB.Model(&models.Pedido{}).Where("mesa_id = ?", m.ID).Count(&total)

	return MesaResponse{
		ID:            m.ID,
		Numero:        m.Numero,
		Capacidad:     m.Capacidad,
		Estado:        m.Estado,
		EstadoDisplay: m.Estado.Display(),
		TotalPedidos:  total,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// numeroOcupado indica si otra mesa distinta de excludeID ya usa ese número.
func numeroOcupado(numero uint, excludeID uint) bool {
	var count int64
	query := database.DB.Model(&models.Mesa{}).Where("numero = ?", numero)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	query.Count(&count)
	return count > 0
}

func parseCreate(c *fiber.Ctx) (*models.Mesa, error) {
	var body CreateMesaRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido.")
	}

	if body.Numero == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "El número de mesa debe ser un entero positivo.")
	}
	if body.Capacidad == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La capacidad debe ser un entero positivo.")
	}
	if numeroOcupado(body.Numero, 0) {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ya existe una mesa con el número %d.", body.Numero))
	}

	mesa := models.Mesa{
		Numero:    body.Numero,
		Capacidad: body.Capacidad,
		Estado:    models.MesaDisponible,
	}
	if body.Estado != nil {
		if !body.Estado.Valid() {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Estado inválido (disponible|ocupada|reservada).")
		}
		mesa.Estado = *body.Estado
	}

	return &mesa, nil
}

func applyUpdate(c *fiber.Ctx, m *models.Mesa) error {
	var body UpdateMesaRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido.")
	}

	if body.Numero != nil {
		if *body.Numero == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El número de mesa debe ser un entero positivo.")
		}
		if numeroOcupado(*body.Numero, m.ID) {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ya existe una mesa con el número %d.", *body.Numero))
		}
		m.Numero = *body.Numero
	}
	if body.Capacidad != nil {
		if *body.Capacidad == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "La capacidad debe ser un entero positivo.")
		}
		m.Capacidad = *body.Capacidad
	}
	if body.Estado != nil {
		if !body.Estado.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Estado inválido (disponible|ocupada|reservada).")
		}
		m.Estado = *body.Estado
	}

	return nil
}

// GET /api/mesas (ordenadas por número)
func ListMesasHandler() fiber.Handler {
	return crud.List("numero asc", serialize)
}

// POST /api/mesas/create
func CreateMesaHandler() fiber.Handler {
	return crud.Create(parseCreate, serialize, func(c *fiber.Ctx, m *models.Mesa) {
		audit.Record(c, "mesa", m.ID, models.AuditActionCreate,
			fmt.Sprintf("Mesa %d creada", m.Numero))
	})
}

// GET /api/mesas/:id
func GetMesaHandler() fiber.Handler {
	return crud.Retrieve("Mesa no encontrada.", nil, serialize)
}

// PUT/PATCH /api/mesas/:id/update
func UpdateMesaHandler() fiber.Handler {
	return crud.Update("Mesa no encontrada.", nil, applyUpdate, serialize, func(c *fiber.Ctx, m *models.Mesa) {
		audit.Record(c, "mesa", m.ID, models.AuditActionUpdate,
			fmt.Sprintf("Mesa %d actualizada", m.Numero))
	})
}

// DELETE /api/mesas/:id/delete (solo administradores). Borra la mesa y sus
// pedidos en una sola transacción.
func DeleteMesaHandler() fiber.Handler {
	return crud.Delete("Mesa no encontrada.", func(tx *gorm.DB, m *models.Mesa) error {
		return tx.Where("mesa_id = ?", m.ID).Delete(&models.Pedido{}).Error
	}, func(c *fiber.Ctx, m *models.Mesa) {
		audit.Record(c, "mesa", m.ID, models.AuditActionDelete,
			fmt.Sprintf("Mesa %d eliminada con sus pedidos", m.Numero))
	})
}

// GET /api/mesas/:id/pedidos
// Devuelve la mesa con todos sus pedidos y estadísticas agrupadas por estado.
func MesaPedidosHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido.")
		}

		var mesa models.Mesa
		if err := database.DB.First(&mesa, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Mesa con id %d no encontrada.", id))
		}

		var lista []models.Pedido
		if err := database.DB.Where("mesa_id = ?", mesa.ID).
			Order("created_at desc").Find(&lista).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los pedidos.")
		}

		var stats []EstadisticaEstado
		if err := database.DB.Model(&models.Pedido{}).
			Select("estado, COUNT(id) as cantidad, COALESCE(SUM(total), 0) as total").
			Where("mesa_id = ?", mesa.ID).
			Group("estado").
			Order("estado asc").
			Scan(&stats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron calcular las estadísticas.")
		}

		res := MesaPedidosResponse{
			ID:                    mesa.ID,
			Numero:                mesa.Numero,
			Capacidad:             mesa.Capacidad,
			Estado:                mesa.Estado,
			EstadoDisplay:         mesa.Estado.Display(),
			Pedidos:               make([]pedidos.PedidoResponse, 0, len(lista)),
			TotalPedidos:          int64(len(lista)),
			EstadisticasPorEstado: stats,
			CreatedAt:             mesa.CreatedAt,
			UpdatedAt:             mesa.UpdatedAt,
		}
		for i := range lista {
			lista[i].Mesa = mesa
			res.Pedidos = append(res.Pedidos, pedidos.Serialize(&lista[i]))
			res.TotalFacturado += lista[i].Total
		}

		return c.JSON(res)
	}
}
