package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gamelog-dev/gamelog/internal/errs"
	"github.com/gamelog-dev/gamelog/internal/model"
)

// GameRepo implements GameRepository using PostgreSQL.
type GameRepo struct{ db *DB }

// NewGameRepo constructs a game repository.
func NewGameRepo(db *DB) *GameRepo { return &GameRepo{db: db} }

// GetByName selects a game by exact name.
func (r *GameRepo) GetByName(ctx context.Context, name string) (*model.Game, error) {
	const q = `SELECT id, name, COALESCE(steam_app_id, 0) FROM games WHERE name=$1`
	return r.scanGame(r.db.Pool.QueryRow(ctx, q, name))
}

// GetBySteamAppID selects a game by its external catalog id.
func (r *GameRepo) GetBySteamAppID(ctx context.Context, appID int64) (*model.Game, error) {
	const q = `SELECT id, name, COALESCE(steam_app_id, 0) FROM games WHERE steam_app_id=$1`
	return r.scanGame(r.db.Pool.QueryRow(ctx, q, appID))
}

func (r *GameRepo) scanGame(row pgx.Row) (*model.Game, error) {
	var g model.Game
	if err := row.Scan(&g.ID, &g.Name, &g.SteamAppID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Create inserts a new game. A zero steam app id is stored as NULL so the
// uniqueness constraint only applies to linked games.
func (r *GameRepo) Create(ctx context.Context, g *model.Game) (int64, error) {
	const q = `INSERT INTO games (name, steam_app_id) VALUES ($1, NULLIF($2::bigint, 0)) RETURNING id`
	var id int64
	if err := r.db.Pool.QueryRow(ctx, q, g.Name, g.SteamAppID).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, errs.ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}
