package auth

import (
	"context"
	"fmt"
	"time"

	"restaurante-backend/internal/database"
)

const sessionTTL = 24 * time.Hour

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

// CreateSession registra la sesión del usuario en Redis tras el login.
func CreateSession(ctx context.Context, userID uint) error {
	return database.Redis.Set(ctx, sessionKey(userID), time.Now().Format(time.RFC3339), sessionTTL).Err()
}

// DestroySession elimina solo el estado de sesión del servidor. El token
// emitido sigue siendo válido: un cliente que use únicamente el header
// Authorization sigue autenticado después del logout.
func DestroySession(ctx context.Context, userID uint) error {
	return database.Redis.Del(ctx, sessionKey(userID)).Err()
}

// HasSession indica si el usuario tiene una sesión viva en el servidor.
func HasSession(ctx context.Context, userID uint) (bool, error) {
	n, err := database.Redis.Exists(ctx, sessionKey(userID)).Result()
	return n > 0, err
}
