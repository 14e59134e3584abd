package entity

import (
	"strings"
	"time"
)

// Provider tells which credential path is valid for a user.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
)

// User is the aggregate root for identities.
// PasswordHash is set only for local accounts; OAuthID only for google ones.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Provider     Provider
	OAuthID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether password login is possible for this account.
func (u *User) HasPassword() bool {
	return u.Provider == ProviderLocal && u.PasswordHash != ""
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PublicUser is the user as exposed over the API; it never carries the hash.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Provider: u.Provider, CreatedAt: u.CreatedAt}
}

// OAuthIdentity is what an external provider asserts about the signed-in user
// after a successful code exchange.
type OAuthIdentity struct {
	Provider      Provider
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}
