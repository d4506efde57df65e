package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurante-backend/internal/auth"
	"restaurante-backend/internal/config"
	"restaurante-backend/internal/database"
	"restaurante-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "secreto123"

// setupTest monta la app completa sobre una base SQLite en memoria (una por
// test) y un Redis miniredis para las sesiones.
func setupTest(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	for _, name := range []string{models.GrupoAdministradores, models.GrupoEmpleados} {
		require.NoError(t, db.Create(&models.Group{Name: name}).Error)
	}

	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{CORSOrigins: "http://localhost"}
	return Setup(cfg)
}

// createUser crea un usuario con contraseña conocida, lo mete en el grupo
// indicado (si no es vacío) y devuelve el usuario con su token.
func createUser(t *testing.T, username, groupName string, superuser bool) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
		IsSuperuser:  superuser,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	if groupName != "" {
		var group models.Group
		require.NoError(t, database.DB.Where("name = ?", groupName).First(&group).Error)
		require.NoError(t, database.DB.Model(&user).Association("Groups").Append(&group))
		user.Groups = []models.Group{group}
	}

	token, err := auth.GetOrCreateToken(database.DB, &user)
	require.NoError(t, err)
	return &user, token.Key
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRutasProtegidasSinToken(t *testing.T) {
	app := setupTest(t)

	for _, ruta := range []struct{ method, path string }{
		{"GET", "/api/mesas"},
		{"POST", "/api/mesas/create"},
		{"GET", "/api/pedidos"},
		{"GET", "/api/users/me"},
		{"POST", "/api/users/logout"},
	} {
		resp := doRequest(t, app, ruta.method, ruta.path, "", nil)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s", ruta.method, ruta.path)
	}
}

func TestTokenInvalido(t *testing.T) {
	app := setupTest(t)

	resp := doRequest(t, app, "GET", "/api/mesas", "deadbeef", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp, &body)
	require.Equal(t, "Token inválido.", body["error"])
}
