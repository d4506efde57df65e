package pedidos

import (
	"fmt"
	"time"

	"restaurante-backend/internal/audit"
	"restaurante-backend/internal/crud"
	"restaurante-backend/internal/database"
	"restaurante-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MesaInfo struct {
	ID     uint              `json:"id"`
	Numero uint              `json:"numero"`
	Estado models.MesaEstado `json:"estado"`
}

type PedidoResponse struct {
	ID            uint                `json:"id"`
	Mesa          uint                `json:"mesa"`
	MesaInfo      *MesaInfo           `json:"mesa_info,omitempty"`
	Descripcion   string              `json:"descripcion"`
	Total         float64             `json:"total"`
	Estado        models.PedidoEstado `json:"estado"`
	EstadoDisplay string              `json:"estado_display"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type CreatePedidoRequest struct {
	Mesa        uint                 `json:"mesa"`
	Descripcion string               `json:"descripcion"`
	Total       *float64             `json:"total"`
	Estado      *models.PedidoEstado `json:"estado"`
}

type UpdatePedidoRequest struct {
	Mesa        *uint                `json:"mesa"`
	Descripcion *string              `json:"descripcion"`
	Total       *float64             `json:"total"`
	Estado      *models.PedidoEstado `json:"estado"`
}

// Serialize arma la respuesta de un pedido con su mesa embebida.
func Serialize(p *models.Pedido) PedidoResponse {
	res := PedidoResponse{
		ID:            p.ID,
		Mesa:          p.MesaID,
		Descripcion:   p.Descripcion,
		Total:         p.Total,
		Estado:        p.Estado,
		EstadoDisplay: p.Estado.Display(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if p.Mesa.ID == 0 {
		database.DB.First(&p.Mesa, "id = ?", p.MesaID)
	}
	if p.Mesa.ID != 0 {
		res.MesaInfo = &MesaInfo{ID: p.Mesa.ID, Numero: p.Mesa.Numero, Estado: p.Mesa.Estado}
	}
	return res
}

func mesaExists(id uint) bool {
	var count int64
	database.DB.Model(&models.Mesa{}).Where("id = ?", id).Count(&count)
	return count > 0
}

func parseCreate(c *fiber.Ctx) (*models.Pedido, error) {
	var body CreatePedidoRequest
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido.")
	}

	if body.Mesa == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "La mesa es obligatoria.")
	}
	if !mesaExists(body.Mesa) {
		return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Mesa con id %d no encontrada.", body.Mesa))
	}

	pedido := models.Pedido{
		MesaID:      body.Mesa,
		Descripcion: body.Descripcion,
		Estado:      models.PedidoPendiente,
	}

	if body.Total != nil {
		if *body.Total < 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "El total no puede ser negativo.")
		}
		pedido.Total = *body.Total
	}
	if body.Estado != nil {
		if !body.Estado.Valid() {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Estado inválido (pendiente|en_preparacion|servido|pagado).")
		}
		pedido.Estado = *body.Estado
	}

	return &pedido, nil
}

func applyUpdate(c *fiber.Ctx, p *models.Pedido) error {
	var body UpdatePedidoRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido.")
	}

	if body.Mesa != nil {
		if !mesaExists(*body.Mesa) {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Mesa con id %d no encontrada.", *body.Mesa))
		}
		p.MesaID = *body.Mesa
		p.Mesa = models.Mesa{}
	}
	if body.Descripcion != nil {
		p.Descripcion = *body.Descripcion
	}
	if body.Total != nil {
		if *body.Total < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El total no puede ser negativo.")
		}
		p.Total = *body.Total
	}
	if body.Estado != nil {
		if !body.Estado.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Estado inválido (pendiente|en_preparacion|servido|pagado).")
		}
		p.Estado = *body.Estado
	}

	return nil
}

// GET /api/pedidos (los más recientes primero)
func ListPedidosHandler() fiber.Handler {
	return crud.List("created_at desc", Serialize)
}

// POST /api/pedidos/create
func CreatePedidoHandler() fiber.Handler {
	return crud.Create(parseCreate, Serialize, func(c *fiber.Ctx, p *models.Pedido) {
		audit.Record(c, "pedido", p.ID, models.AuditActionCreate,
			fmt.Sprintf("Pedido creado en la mesa %d", p.MesaID))
	})
}

// GET /api/pedidos/:id
func GetPedidoHandler() fiber.Handler {
	return crud.Retrieve("Pedido no encontrado.", []string{"Mesa"}, Serialize)
}

// PUT/PATCH /api/pedidos/:id
func UpdatePedidoHandler() fiber.Handler {
	return crud.Update("Pedido no encontrado.", []string{"Mesa"}, applyUpdate, Serialize, func(c *fiber.Ctx, p *models.Pedido) {
		audit.Record(c, "pedido", p.ID, models.AuditActionUpdate, "Pedido actualizado")
	})
}

// DELETE /api/pedidos/:id/delete (solo administradores)
func DeletePedidoHandler() fiber.Handler {
	var noCascade func(tx *gorm.DB, p *models.Pedido) error
	return crud.Delete("Pedido no encontrado.", noCascade, func(c *fiber.Ctx, p *models.Pedido) {
		audit.Record(c, "pedido", p.ID, models.AuditActionDelete,
			fmt.Sprintf("Pedido %d eliminado", p.ID))
	})
}
