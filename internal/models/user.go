package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Values are stored as-is and embedded in token claims.
const (
	RoleUser  = "usuario"
	RoleAdmin = "administrador"
)

type User struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	FirstName    string
	LastName     string
	Email        string
	Username     string
	PasswordHash string
	BirthDate    *time.Time
	Bio          *string
	AvatarURL    *string
	AvatarKey    *string
	Role         string
	Active       bool
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthUser is the identity decoded from a verified access token.
// It carries claims only; it is not a fresh read from the store.
type AuthUser struct {
	ID       uuid.UUID
	Username string
	Role     string
}

func (u AuthUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}
