package auth

import (
	"strings"

	"restaurante-backend/internal/database"
	"restaurante-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const CtxUserKey = "current_user"

// TokenMiddleware resuelve el header "Authorization: Bearer <token>" contra la
// tabla de tokens y deja el usuario (con sus grupos) en el contexto.
func TokenMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Falta el header Authorization.")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		scheme := strings.ToLower(parts[0])
		if len(parts) != 2 || (scheme != "bearer" && scheme != "token") {
			return fiber.NewError(fiber.StatusUnauthorized, "El formato del header debe ser 'Bearer <token>'.")
		}

		var token models.AuthToken
		if err := database.DB.Preload("User.Groups").
			Where("key = ?", parts[1]).First(&token).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido.")
		}

		if !token.User.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuario inactivo o eliminado.")
		}

		c.Locals(CtxUserKey, &token.User)
		return c.Next()
	}
}

// CurrentUser devuelve el usuario autenticado del contexto, o nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(CtxUserKey).(*models.User)
	return u
}

// RequirePermission corta la petición si la política deniega la acción.
func RequirePermission(action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Authorize(CurrentUser(c), action) {
			return fiber.NewError(fiber.StatusForbidden, "No tiene permisos para realizar esta acción.")
		}
		return c.Next()
	}
}

// RequireAdmin exige superusuario o pertenencia a "Administradores".
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdministrador(CurrentUser(c)) {
			return fiber.NewError(fiber.StatusForbidden, "No tiene permisos para realizar esta acción.")
		}
		return c.Next()
	}
}
