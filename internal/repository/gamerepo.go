package repository

import (
	"context"

	"github.com/gamelog-dev/gamelog/internal/model"
)

// GameRepository provides access to the game catalog.
type GameRepository interface {
	// GetByName loads a game by exact name.
	GetByName(ctx context.Context, name string) (*model.Game, error)
	// GetBySteamAppID loads a game by its external catalog id.
	GetBySteamAppID(ctx context.Context, appID int64) (*model.Game, error)
	// Create inserts a new game and returns its id. A steam app id of zero
	// means the game has no external link.
	Create(ctx context.Context, g *model.Game) (int64, error)
}
