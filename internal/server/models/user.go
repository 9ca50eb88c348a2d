package models

import "time"

// User is the credential-store record. PasswordHash and RefreshToken never
// leave the server; handlers respond with Identity instead.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       AssetRef
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the client-safe projection of a User, produced by the auth
// middleware and threaded explicitly through handlers.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar,omitempty"`
}

// Identity strips the secret fields from u.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.Avatar.URL}
}
