package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gamelog-dev/gamelog/internal/errs"
	"github.com/gamelog-dev/gamelog/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, email, COALESCE(steam_id, ''), created_at`

// CreateWithCredential inserts user and credential rows atomically.
func (r *UserRepo) CreateWithCredential(
	ctx context.Context, u *model.User, c *model.Credential,
) (id int64, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const insUser = `INSERT INTO users (username, email) VALUES ($1, $2) RETURNING id`
	if err = tx.QueryRow(ctx, insUser, u.Username, u.Email).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			err = errs.ErrAlreadyExists
		}
		return 0, err
	}

	const insCred = `INSERT INTO user_private (user_id, password_hash, salt) VALUES ($1, $2, $3)`
	if _, err = tx.Exec(ctx, insCred, id, c.PasswordHash, c.Salt); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID selects a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByUsername selects a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, username))
}

// GetByEmail selects a user by exact email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

func (r *UserRepo) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.SteamID, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetCredential selects the credential row for a user.
func (r *UserRepo) GetCredential(ctx context.Context, userID int64) (*model.Credential, error) {
	const q = `SELECT user_id, password_hash, salt, created_at FROM user_private WHERE user_id=$1`
	row := r.db.Pool.QueryRow(ctx, q, userID)
	var c model.Credential
	if err := row.Scan(&c.UserID, &c.PasswordHash, &c.Salt, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// SetSteamID stores the external account link for a user.
func (r *UserRepo) SetSteamID(ctx context.Context, userID int64, steamID string) error {
	const q = `UPDATE users SET steam_id=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, userID, steamID)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
