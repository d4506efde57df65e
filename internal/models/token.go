package models

import "time"

// AuthToken es el token opaco de autenticación. Un solo token por usuario;
// el login lo reutiliza si ya existe en vez de rotarlo.
type AuthToken struct {
	Key       string `gorm:"primaryKey;size:40"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	User      User
	CreatedAt time.Time
}
