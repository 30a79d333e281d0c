package domain

import (
	"slices"
	"time"
)

// User is the account record behind a Principal.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal projects the account onto the request-scoped actor.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Roles: slices.Clone(u.Roles)}
}
