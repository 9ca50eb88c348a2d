// Package services contains the server-side business logic. This file
// implements UserService: registration, login, logout, refresh-token rotation,
// password change and profile updates.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mzfirozuddin/elib-apis/internal/common"
	"github.com/mzfirozuddin/elib-apis/internal/logging"
	"github.com/mzfirozuddin/elib-apis/internal/server/assets"
	"github.com/mzfirozuddin/elib-apis/internal/server/auth"
	"github.com/mzfirozuddin/elib-apis/internal/server/config"
	"github.com/mzfirozuddin/elib-apis/internal/server/models"
	"github.com/mzfirozuddin/elib-apis/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations. The authoritative
// refresh token lives on the user row: issuing a new one invalidates the prior.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	relay       assets.Relay
	logger      logging.Logger

	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewUserService constructs a UserService from repositories, the asset relay
// and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, relay assets.Relay, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		relay:         relay,
		logger:        logger,
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// NormalizeEmail lower-cases and trims an email address before any lookup or
// storage; the unique index on users.email assumes this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and opens a session. avatarPath may be empty; when
// set it points at a staged upload that is relayed before the user is stored.
func (s *UserService) Register(ctx context.Context, name, email, password, avatarPath string) (*models.User, *TokenPair, error) {
	email = NormalizeEmail(email)

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, nil, common.ErrorConflict
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, nil, common.ErrorInternal
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash}

	if avatarPath != "" {
		ref, err := s.relay.Upload(ctx, avatarPath, assets.KindImage)
		if err != nil {
			s.logger.Error(ctx, "avatar upload failed", "error", err)
			return nil, nil, common.ErrorUploadFailed
		}
		user.Avatar = *ref
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, nil, common.ErrorConflict
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials and rotates the session. The prior refresh token
// becomes invalid.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout clears the persisted refresh token.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.repomanager.Users(s.db).UpdateRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("error clearing refresh token: %w", err)
	}
	return nil
}

// Refresh validates a presented refresh token, rotates it and returns a fresh
// pair. The token must verify against the refresh secret AND be byte-equal to
// the stored copy; anything else is treated as expired or reused.
func (s *UserService) Refresh(ctx context.Context, presented string) (*models.User, *TokenPair, error) {
	claims, err := auth.ParseToken(presented, s.refreshSecret)
	if err != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	if subtle.ConstantTimeCompare([]byte(presented), []byte(user.RefreshToken)) != 1 {
		return nil, nil, common.ErrRefreshTokenExpired
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ChangePassword verifies the old password and stores a new hash. It does not
// revoke the stored refresh token, so existing sessions stay alive.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return common.ErrorUnauthorized
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// UpdateProfile renames the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name string) error {
	if err := s.repomanager.Users(s.db).UpdateName(ctx, userID, name); err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	return nil
}

// UpdateAvatar relays the staged file, persists the new reference and then
// deletes the previous avatar asset. The delete runs after the DB write so a
// crash in between orphans the old asset instead of losing the new one.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*models.AssetRef, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	ref, err := s.relay.Upload(ctx, localPath, assets.KindImage)
	if err != nil {
		s.logger.Error(ctx, "avatar upload failed", "error", err)
		return nil, common.ErrorUploadFailed
	}

	if err := repo.UpdateAvatar(ctx, userID, *ref); err != nil {
		return nil, fmt.Errorf("error updating avatar: %w", err)
	}

	if !user.Avatar.IsZero() {
		if err := s.relay.Remove(ctx, user.Avatar, assets.KindImage); err != nil {
			s.logger.Warn(ctx, "old avatar delete failed, asset orphaned", "key", user.Avatar.StorageKey, "error", err)
		}
	}

	return ref, nil
}

// Self returns the user behind an id.
func (s *UserService) Self(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *UserService) issueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := auth.NewAccessToken(user.ID, user.Email, user.Name, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.NewRefreshToken(user.ID, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.Users(s.db).UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, common.ErrorInternal
	}
	user.RefreshToken = refresh

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
