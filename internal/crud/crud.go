// Package crud define handlers genéricos sobre GORM + Fiber, parametrizados
// por el tipo de entidad, su serializador y callbacks de validación. Así los
// recursos no duplican cinco handlers casi idénticos cada uno.
package crud

import (
	"restaurante-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func find[M any](c *fiber.Ctx, preload []string, notFound string) (*M, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ID inválido.")
	}

	tx := database.DB
	for _, p := range preload {
		tx = tx.Preload(p)
	}

	var m M
	if err := tx.First(&m, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, notFound)
	}
	return &m, nil
}

func List[M any, R any](order string, serialize func(*M) R) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []M
		if err := database.DB.Order(order).Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo listar el recurso.")
		}

		res := make([]R, 0, len(items))
		for i := range items {
			res = append(res, serialize(&items[i]))
		}
		return c.JSON(res)
	}
}

func Retrieve[M any, R any](notFound string, preload []string, serialize func(*M) R) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := find[M](c, preload, notFound)
		if err != nil {
			return err
		}
		return c.JSON(serialize(m))
	}
}

// Create valida y construye la entidad con el callback parse; cualquier error
// de validación se devuelve antes de tocar la base de datos.
func Create[M any, R any](parse func(c *fiber.Ctx) (*M, error), serialize func(*M) R, after func(c *fiber.Ctx, m *M)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := parse(c)
		if err != nil {
			return err
		}

		if err := database.DB.Create(m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el recurso.")
		}

		if after != nil {
			after(c, m)
		}
		return c.Status(fiber.StatusCreated).JSON(serialize(m))
	}
}

// Update aplica el callback sobre la entidad cargada; los campos del body son
// punteros, así que PUT y PATCH comparten la semántica de campos presentes.
func Update[M any, R any](notFound string, preload []string, apply func(c *fiber.Ctx, m *M) error, serialize func(*M) R, after func(c *fiber.Ctx, m *M)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := find[M](c, preload, notFound)
		if err != nil {
			return err
		}

		if err := apply(c, m); err != nil {
			return err
		}

		if err := database.DB.Save(m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el recurso.")
		}

		if after != nil {
			after(c, m)
		}
		return c.JSON(serialize(m))
	}
}

// Delete borra la entidad y su cascada dentro de una sola transacción:
// nunca debe observarse la entidad borrada con sus dependientes vivos.
func Delete[M any](notFound string, cascade func(tx *gorm.DB, m *M) error, after func(c *fiber.Ctx, m *M)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := find[M](c, nil, notFound)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if cascade != nil {
				if err := cascade(tx, m); err != nil {
					return err
				}
			}
			return tx.Delete(m).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el recurso.")
		}

		if after != nil {
			after(c, m)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
