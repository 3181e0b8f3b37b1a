// Package service contains application services for identity and collection management.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	pkgcrypto "github.com/gamelog-dev/gamelog/internal/crypto"
	"github.com/gamelog-dev/gamelog/internal/errs"
	"github.com/gamelog-dev/gamelog/internal/model"
	"github.com/gamelog-dev/gamelog/internal/repository"
)

// AuthService defines identity operations.
type AuthService interface {
	// Signup creates a user with a freshly salted password hash.
	Signup(ctx context.Context, username, email, password string) (int64, error)
	// Login resolves the identifier (username first, then email) and verifies
	// the password. Both failure paths return ErrInvalidCredentials.
	Login(ctx context.Context, identifier, password string) (int64, error)
	// LinkSteamID stores the user's external account link for sync.
	LinkSteamID(ctx context.Context, userID int64, steamID string) error
}

type AuthServiceImpl struct {
	users repository.UserRepository
	log   *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, log *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, log: log}
}

// Signup creates the user and credential rows in one transaction.
func (s *AuthServiceImpl) Signup(ctx context.Context, username, email, password string) (int64, error) {
	if username == "" || email == "" || password == "" {
		return 0, errors.New("empty username/email/password")
	}

	salt, err := pkgcrypto.RandBytes(pkgcrypto.SaltLen)
	if err != nil {
		return 0, fmt.Errorf("salt generation: %w: %v", errs.ErrCrypto, err)
	}
	hash := pkgcrypto.HashPassword([]byte(password), salt)

	u := &model.User{Username: username, Email: email}
	c := &model.Credential{PasswordHash: hash, Salt: salt}
	id, err := s.users.CreateWithCredential(ctx, u, c)
	if err != nil {
		return 0, err
	}
	s.log.Info("user signed up", zap.Int64("user_id", id))
	return id, nil
}

// Login authenticates by username or email. The returned error never reveals
// whether the identifier was unknown or the password wrong.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (int64, error) {
	if identifier == "" || password == "" {
		return 0, errs.ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, identifier)
	if errors.Is(err, errs.ErrNotFound) {
		u, err = s.users.GetByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.log.Debug("login failed")
			return 0, errs.ErrInvalidCredentials
		}
		return 0, err
	}

	cred, err := s.users.GetCredential(ctx, u.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.log.Debug("login failed")
			return 0, errs.ErrInvalidCredentials
		}
		return 0, err
	}

	if !pkgcrypto.VerifyPassword([]byte(password), cred.Salt, cred.PasswordHash) {
		s.log.Debug("login failed")
		return 0, errs.ErrInvalidCredentials
	}
	return u.ID, nil
}

// LinkSteamID stores the external account id on the user row.
func (s *AuthServiceImpl) LinkSteamID(ctx context.Context, userID int64, steamID string) error {
	if userID <= 0 || steamID == "" {
		return errors.New("empty userID/steamID")
	}
	return s.users.SetSteamID(ctx, userID, steamID)
}
