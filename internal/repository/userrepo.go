// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gamelog-dev/gamelog/internal/model"
)

// UserRepository provides access to user identities and their credentials.
type UserRepository interface {
	// CreateWithCredential inserts the user and its credential in one
	// transaction and returns the new user id. A failure leaves neither row.
	CreateWithCredential(ctx context.Context, u *model.User, c *model.Credential) (int64, error)
	// GetByID loads a user by id.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByUsername loads a user by exact username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByEmail loads a user by exact email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetCredential loads the credential row for a user.
	GetCredential(ctx context.Context, userID int64) (*model.Credential, error)
	// SetSteamID stores the external account link for a user.
	SetSteamID(ctx context.Context, userID int64, steamID string) error
}
