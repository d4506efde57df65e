package router

import (
	"strings"

	"restaurante-backend/internal/audit"
	"restaurante-backend/internal/auth"
	"restaurante-backend/internal/config"
	"restaurante-backend/internal/mesas"
	"restaurante-backend/internal/pedidos"
	"restaurante-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

// Setup construye la app Fiber con el manejador de errores central y todas
// las rutas. Separado de main para poder montarla igual en los tests.
func Setup(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logrus.Errorf("Error inesperado: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Error inesperado del servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Públicos
	api.Post("/users/register", users.RegisterHandler())
	api.Post("/users/login", users.LoginHandler())

	protected := api.Group("", auth.TokenMiddleware())

	// Usuarios (las rutas fijas van antes que /users/:id)
	protected.Post("/users/logout", users.LogoutHandler())
	protected.Get("/users/me", users.MeHandler())
	protected.Post("/users/change-password", users.ChangePasswordHandler())
	protected.Get("/users/groups", users.ListGroupsHandler())
	protected.Get("/users", auth.RequireAdmin(), users.ListUsersHandler())
	protected.Post("/users/:id/assign-group", auth.RequireAdmin(), users.AssignGroupHandler())
	protected.Get("/users/:id", users.GetUserHandler())
	protected.Put("/users/:id", users.UpdateUserHandler())
	protected.Patch("/users/:id", users.UpdateUserHandler())
	protected.Delete("/users/:id", users.DeleteUserHandler())

	// Mesas
	protected.Get("/mesas", mesas.ListMesasHandler())
	protected.Post("/mesas/create", mesas.CreateMesaHandler())
	protected.Get("/mesas/:id", mesas.GetMesaHandler())
	protected.Put("/mesas/:id/update", mesas.UpdateMesaHandler())
	protected.Patch("/mesas/:id/update", mesas.UpdateMesaHandler())
	protected.Delete("/mesas/:id/delete", auth.RequirePermission(auth.ActionDelete), mesas.DeleteMesaHandler())
	protected.Get("/mesas/:id/pedidos", mesas.MesaPedidosHandler())

	// Pedidos
	protected.Get("/pedidos", pedidos.ListPedidosHandler())
	protected.Post("/pedidos/create", pedidos.CreatePedidoHandler())
	protected.Get("/pedidos/:id", pedidos.GetPedidoHandler())
	protected.Put("/pedidos/:id", pedidos.UpdatePedidoHandler())
	protected.Patch("/pedidos/:id", pedidos.UpdatePedidoHandler())
	protected.Delete("/pedidos/:id/delete", auth.RequirePermission(auth.ActionDelete), pedidos.DeletePedidoHandler())

	// Auditoría
	protected.Get("/audit-logs", auth.RequireAdmin(), audit.ListAuditLogsHandler())

	return app
}
