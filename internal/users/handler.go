package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"restaurante-backend/internal/audit"
	"restaurante-backend/internal/auth"
	"restaurante-backend/internal/database"
	"restaurante-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type GroupResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type UserResponse struct {
	ID         uint            `json:"id"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	IsActive   bool            `json:"is_active"`
	IsStaff    bool            `json:"is_staff"`
	Groups     []GroupResponse `json:"groups"`
	GroupNames []string        `json:"group_names"`
	DateJoined time.Time       `json:"date_joined"`
	LastLogin  *time.Time      `json:"last_login"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type AssignGroupRequest struct {
	GroupName string `json:"group_name"`
}

func serializeUser(u *models.User) UserResponse {
	groups := make([]GroupResponse, 0, len(u.Groups))
	for _, g := range u.Groups {
		groups = append(groups, GroupResponse{ID: g.ID, Name: g.Name})
	}

	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsActive:   u.IsActive,
		IsStaff:    u.IsStaff,
		Groups:     groups,
		GroupNames: u.GroupNames(),
		DateJoined: u.DateJoined,
		LastLogin:  u.LastLogin,
	}
}

// validatePassword aplica las reglas mínimas de robustez: al menos ocho
// caracteres y no completamente numérica.
func validatePassword(password string) error {
	if len(password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "Esta contraseña es demasiado corta. Debe contener al menos 8 caracteres.")
	}

	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return fiber.NewError(fiber.StatusBadRequest, "Esta contraseña es completamente numérica.")
	}

	return nil
}

func findUserByID(id int) (*models.User, error) {
	var user models.User
	if err := database.DB.Preload("Groups").First(&user, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Usuario con id %d no encontrado.", id))
	}
	return &user, nil
}

// POST /api/users/register (público)
func RegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido.")
		}

		body.Username = strings.TrimSpace(body.Username)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Username == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre de usuario es obligatorio.")
		}
		if body.Password != body.PasswordConfirm {
			return fiber.NewError(fiber.StatusBadRequest, "Las contraseñas no coinciden.")
		}
		if err := validatePassword(body.Password); err != nil {
			return err
		}

		var count int64
		database.DB.Model(&models.User{}).Where("username = ?", body.Username).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre de usuario ya está en uso.")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña.")
		}

		user := models.User{
			Username:     body.Username,
			Email:        body.Email,
			FirstName:    body.FirstName,
			LastName:     body.LastName,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear el usuario.")
		}

		// Grupo "Empleados" por defecto, si existe
		var empleados models.Group
		if err := database.DB.Where("name = ?", models.GrupoEmpleados).First(&empleados).Error; err == nil {
			if err := database.DB.Model(&user).Association("Groups").Append(&empleados); err != nil {
				logrus.Errorf("No se pudo asignar el grupo por defecto: %v", err)
			}
			user.Groups = []models.Group{empleados}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Usuario registrado exitosamente.",
			"user":    serializeUser(&user),
		})
	}
}

// POST /api/users/login (público)
func LoginHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido.")
		}

		var user models.User
		if err := database.DB.Preload("Groups").
			Where("username = ?", body.Username).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas.")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciales inválidas.")
		}

		// Con credenciales correctas pero cuenta desactivada la respuesta es
		// 403, no 401.
		if !user.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "La cuenta está desactivada.")
		}

		token, err := auth.GetOrCreateToken(database.DB, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo emitir el token.")
		}

		now := time.Now()
		user.LastLogin = &now
		database.DB.Model(&user).Update("last_login", now)

		if err := auth.CreateSession(c.Context(), user.ID); err != nil {
			logrus.Errorf("No se pudo registrar la sesión: %v", err)
		}

		return c.JSON(fiber.Map{
			"message": "Inicio de sesión exitoso.",
			"token":   token.Key,
			"user":    serializeUser(&user),
		})
	}
}

// POST /api/users/logout
// Solo limpia la sesión del servidor; el token emitido no se revoca.
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := auth.CurrentUser(c)
		if err := auth.DestroySession(c.Context(), user.ID); err != nil {
			logrus.Errorf("No se pudo cerrar la sesión: %v", err)
		}
		return c.JSON(fiber.Map{
			"message": "Sesión cerrada exitosamente.",
		})
	}
}

// GET /api/users (solo administradores)
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.User
		if err := database.DB.Preload("Groups").Order("id asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los usuarios.")
		}

		res := make([]UserResponse, 0, len(list))
		for i := range list {
			res = append(res, serializeUser(&list[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/users/:id (el propio usuario o un administrador)
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido.")
		}

		if !auth.IsSelfOrAdmin(auth.CurrentUser(c), uint(id)) {
			return fiber.NewError(fiber.StatusForbidden, "No tiene permisos para realizar esta acción.")
		}

		user, err := findUserByID(id)
		if err != nil {
			return err
		}
		return c.JSON(serializeUser(user))
	}
}

// PUT/PATCH /api/users/:id (el propio usuario o un administrador)
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido.")
		}

		if !auth.IsSelfOrAdmin(auth.CurrentUser(c), uint(id)) {
			return fiber.NewError(fiber.StatusForbidden, "No tiene permisos para realizar esta acción.")
		}

		user, err := findUserByID(id)
		if err != nil {
			return err
		}

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido.")
		}

		if body.Email != nil {
			user.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.FirstName != nil {
			user.FirstName = *body.FirstName
		}
		if body.LastName != nil {
			user.LastName = *body.LastName
		}

		if err := database.DB.Save(user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar el usuario.")
		}

		audit.Record(c, "user", user.ID, models.AuditActionUpdate,
			fmt.Sprintf("Usuario %s actualizado", user.Username))
		return c.JSON(serializeUser(user))
	}
}

// DELETE /api/users/:id (solo administradores)
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.IsAdministrador(auth.CurrentUser(c)) {
			return fiber.NewError(fiber.StatusForbidden, "No tiene permisos para eliminar usuarios.")
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido.")
		}

		user, err := findUserByID(id)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.AuthToken{}).Error; err != nil {
				return err
			}
			if err := tx.Model(user).Association("Groups").Clear(); err != nil {
				return err
			}
			return tx.Delete(user).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el usuario.")
		}

		audit.Record(c, "user", user.ID, models.AuditActionDelete,
			fmt.Sprintf("Usuario %s eliminado", user.Username))
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/users/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(serializeUser(auth.CurrentUser(c)))
	}
}

// POST /api/users/change-password
func ChangePasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ChangePasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido.")
		}

		user := auth.CurrentUser(c)
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.OldPassword)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "La contraseña actual es incorrecta.")
		}
		if err := validatePassword(body.NewPassword); err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar la contraseña.")
		}

		if err := database.DB.Model(user).Update("password_hash", string(hash)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar la contraseña.")
		}

		return c.JSON(fiber.Map{
			"message": "Contraseña actualizada exitosamente.",
		})
	}
}

// POST /api/users/:id/assign-group (solo administradores)
// La asignación reemplaza todos los grupos del usuario por el indicado.
func AssignGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido.")
		}

		user, err := findUserByID(id)
		if err != nil {
			return err
		}

		var body AssignGroupRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido.")
		}

		var group models.Group
		if err := database.DB.Where("name = ?", body.GroupName).First(&group).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("El grupo '%s' no existe.", body.GroupName))
		}

		if err := database.DB.Model(user).Association("Groups").Replace(&group); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo asignar el grupo.")
		}
		user.Groups = []models.Group{group}

		audit.Record(c, "user", user.ID, models.AuditActionUpdate,
			fmt.Sprintf("Usuario %s asignado al grupo %s", user.Username, group.Name))
		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Usuario %s asignado al grupo %s.", user.Username, group.Name),
			"user":    serializeUser(user),
		})
	}
}

// GET /api/users/groups
func ListGroupsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var groups []models.Group
		if err := database.DB.Order("id asc").Find(&groups).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar los grupos.")
		}

		res := make([]GroupResponse, 0, len(groups))
		for _, g := range groups {
			res = append(res, GroupResponse{ID: g.ID, Name: g.Name})
		}
		return c.JSON(res)
	}
}
