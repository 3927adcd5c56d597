// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the account that owns sessions and contacts.
type User struct {
	ID           uuid.UUID    // The Global Unique Identifier (GUID) for the user.
	Name         string       // The user's display name.
	Email        string       // Lower-cased, unique across all users.
	PasswordHash string       // bcrypt digest; never the plaintext and never empty.
	Subscription Subscription // Plan tier, defaults to starter.
	AvatarURL    string       // Optional profile picture.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicProfile is the only projection of a User that leaves the service.
type PublicProfile struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Subscription Subscription `json:"subscription"`
	AvatarURL    string       `json:"avatarURL,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() *PublicProfile {
	return &PublicProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Subscription: u.Subscription,
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt,
	}
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
