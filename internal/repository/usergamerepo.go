package repository

import (
	"context"

	"github.com/gamelog-dev/gamelog/internal/model"
)

// UserGameRepository provides access to per-user ownership records.
// At most one row exists per (user_id, game_id); Upsert is the only
// operation expected to run repeatedly for the same pair.
type UserGameRepository interface {
	// Insert adds a fresh ownership record and returns its id.
	Insert(ctx context.Context, ug *model.UserGame) (int64, error)
	// Get loads a single record by id.
	Get(ctx context.Context, id int64) (*model.UserGame, error)
	// UpdateState overwrites play state and platform in place.
	UpdateState(ctx context.Context, id int64, state model.PlayState, platform model.Platform) error
	// Upsert inserts the record or, on (user_id, game_id) conflict, overwrites
	// the mutable fields of the existing row. Safe under concurrent calls for
	// the same pair.
	Upsert(ctx context.Context, ug *model.UserGame) error
	// ListWithNames returns the user's collection joined with game names,
	// ordered by name.
	ListWithNames(ctx context.Context, userID int64) ([]model.CollectionEntry, error)
}
