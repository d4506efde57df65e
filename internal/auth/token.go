package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"restaurante-backend/internal/models"

	"gorm.io/gorm"
)

// GetOrCreateToken devuelve el token del usuario, creándolo solo si aún no
// existe. Logins repetidos reutilizan el mismo token, no se rota.
func GetOrCreateToken(db *gorm.DB, user *models.User) (*models.AuthToken, error) {
	var token models.AuthToken
	err := db.Where("user_id = ?", user.ID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key, err := generateKey()
	if err != nil {
		return nil, err
	}

	token = models.AuthToken{Key: key, UserID: user.ID}
	if err := db.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// 20 bytes aleatorios -> 40 caracteres hex.
func generateKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
