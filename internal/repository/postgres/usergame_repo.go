package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/gamelog-dev/gamelog/internal/errs"
	"github.com/gamelog-dev/gamelog/internal/model"
)

// UserGameRepo implements UserGameRepository using PostgreSQL.
type UserGameRepo struct{ db *DB }

// NewUserGameRepo constructs a user-game repository.
func NewUserGameRepo(db *DB) *UserGameRepo { return &UserGameRepo{db: db} }

// Insert adds a fresh ownership record.
func (r *UserGameRepo) Insert(ctx context.Context, ug *model.UserGame) (int64, error) {
	const q = `
INSERT INTO user_games (user_id, game_id, play_state, platform, acquisition_date, start_date, beat_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q,
		ug.UserID, ug.GameID, string(ug.PlayState), string(ug.Platform),
		ug.AcquisitionDate, ug.StartDate, ug.BeatDate,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, errs.ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

// Get loads a single ownership record by id.
func (r *UserGameRepo) Get(ctx context.Context, id int64) (*model.UserGame, error) {
	const q = `
SELECT id, user_id, game_id, play_state, platform, acquisition_date, start_date, beat_date
FROM user_games WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var (
		ug    model.UserGame
		state string
		plat  string
	)
	err := row.Scan(&ug.ID, &ug.UserID, &ug.GameID, &state, &plat,
		&ug.AcquisitionDate, &ug.StartDate, &ug.BeatDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	ug.PlayState = model.PlayState(state)
	ug.Platform = model.Platform(plat)
	return &ug, nil
}

// UpdateState overwrites play state and platform for an existing record.
func (r *UserGameRepo) UpdateState(
	ctx context.Context, id int64, state model.PlayState, platform model.Platform,
) error {
	const q = `UPDATE user_games SET play_state=$2, platform=$3 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, string(state), string(platform))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Upsert inserts or overwrites the ownership record for (user_id, game_id).
// The unique constraint plus the conflict clause make repeated imports of the
// same game converge on a single row even under concurrent calls.
func (r *UserGameRepo) Upsert(ctx context.Context, ug *model.UserGame) error {
	const q = `
INSERT INTO user_games (user_id, game_id, play_state, platform, acquisition_date, start_date, beat_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id, game_id) DO UPDATE
SET play_state=EXCLUDED.play_state,
    platform=EXCLUDED.platform,
    acquisition_date=EXCLUDED.acquisition_date,
    start_date=EXCLUDED.start_date,
    beat_date=EXCLUDED.beat_date`
	_, err := r.db.Pool.Exec(ctx, q,
		ug.UserID, ug.GameID, string(ug.PlayState), string(ug.Platform),
		ug.AcquisitionDate, ug.StartDate, ug.BeatDate,
	)
	return err
}

// ListWithNames returns the user's collection joined with game names.
func (r *UserGameRepo) ListWithNames(ctx context.Context, userID int64) ([]model.CollectionEntry, error) {
	const q = `
SELECT g.name, ug.id, ug.user_id, ug.game_id, ug.play_state, ug.platform,
       ug.acquisition_date, ug.start_date, ug.beat_date
FROM user_games ug
JOIN games g ON g.id = ug.game_id
WHERE ug.user_id=$1
ORDER BY g.name ASC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CollectionEntry
	for rows.Next() {
		var (
			e     model.CollectionEntry
			state string
			plat  string
		)
		err = rows.Scan(&e.GameName, &e.UserGame.ID, &e.UserGame.UserID, &e.UserGame.GameID,
			&state, &plat, &e.UserGame.AcquisitionDate, &e.UserGame.StartDate, &e.UserGame.BeatDate)
		if err != nil {
			return nil, err
		}
		e.UserGame.PlayState = model.PlayState(state)
		e.UserGame.Platform = model.Platform(plat)
		out = append(out, e)
	}
	return out, rows.Err()
}
