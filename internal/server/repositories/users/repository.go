// Package users provides the credential store: persisted user records with
// their password hashes, avatar references and the single active refresh
// token per user.
package users

import (
	"context"

	"github.com/mzfirozuddin/elib-apis/internal/server/models"
)

// Repository is the persistence contract for user records.
type Repository interface {
	// Create inserts a new user. A duplicate email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given (case-normalized) email,
	// or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdateRefreshToken replaces the stored refresh token. An empty token
	// clears it (logout).
	UpdateRefreshToken(ctx context.Context, userID, token string) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// UpdateName replaces the display name.
	UpdateName(ctx context.Context, userID, name string) error

	// UpdateAvatar replaces the avatar asset reference.
	UpdateAvatar(ctx context.Context, userID string, avatar models.AssetRef) error
}
