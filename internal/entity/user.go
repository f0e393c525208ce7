package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. The password hash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
