// Package models holds the server-side user record and its public projection.
package models

import (
	"strings"
	"time"
)

// User is the stored identity record. PasswordHash never leaves the service
// layer; use Public to obtain a value that is safe to return.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// Profile carries the optional fields supplied at registration.
type Profile struct {
	Name string
}

// PublicUser is the projection of User returned to callers. It has no
// password hash field.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// NormalizeEmail is the canonical form used for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
