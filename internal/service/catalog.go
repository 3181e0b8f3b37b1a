package service

import (
	"context"
	"errors"

	"github.com/gamelog-dev/gamelog/internal/errs"
	"github.com/gamelog-dev/gamelog/internal/model"
	"github.com/gamelog-dev/gamelog/internal/repository"
)

// CatalogService reconciles referenced titles against the local game catalog,
// inserting catalog rows lazily on first reference.
type CatalogService interface {
	// UpsertByName returns the id of the game with this exact name, creating
	// it without an external link when absent. No normalization is applied:
	// differently capitalized titles are distinct games.
	UpsertByName(ctx context.Context, name string) (int64, error)
	// UpsertBySteamAppID returns the id of the game with this external id,
	// creating it with the supplied name when absent.
	UpsertBySteamAppID(ctx context.Context, appID int64, name string) (int64, error)
}

type CatalogServiceImpl struct {
	games repository.GameRepository
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(games repository.GameRepository) *CatalogServiceImpl {
	return &CatalogServiceImpl{games: games}
}

// UpsertByName resolves or creates a game by exact name.
func (s *CatalogServiceImpl) UpsertByName(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("empty game name")
	}
	g, err := s.games.GetByName(ctx, name)
	if err == nil {
		return g.ID, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return 0, err
	}

	id, err := s.games.Create(ctx, &model.Game{Name: name})
	if errors.Is(err, errs.ErrAlreadyExists) {
		// Lost a race with a concurrent first reference; the row exists now.
		g, err = s.games.GetByName(ctx, name)
		if err != nil {
			return 0, err
		}
		return g.ID, nil
	}
	return id, err
}

// UpsertBySteamAppID resolves or creates a game by external catalog id.
// The insert is not cross-checked against existing games with the same name;
// when the name is already taken by an unlinked game the caller gets
// ErrAlreadyExists rather than a silent merge.
func (s *CatalogServiceImpl) UpsertBySteamAppID(ctx context.Context, appID int64, name string) (int64, error) {
	if appID <= 0 || name == "" {
		return 0, errors.New("empty app id/name")
	}
	g, err := s.games.GetBySteamAppID(ctx, appID)
	if err == nil {
		return g.ID, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return 0, err
	}

	id, err := s.games.Create(ctx, &model.Game{Name: name, SteamAppID: appID})
	if errors.Is(err, errs.ErrAlreadyExists) {
		// Either a concurrent import inserted the same app id, or the name
		// collided with an existing unlinked game. Only the former converges.
		g, gerr := s.games.GetBySteamAppID(ctx, appID)
		if gerr == nil {
			return g.ID, nil
		}
		return 0, err
	}
	return id, err
}
