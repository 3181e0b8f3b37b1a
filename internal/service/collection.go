package service

import (
	"context"
	"errors"
	"time"

	"github.com/gamelog-dev/gamelog/internal/errs"
	"github.com/gamelog-dev/gamelog/internal/model"
	"github.com/gamelog-dev/gamelog/internal/repository"
)

// CollectionService maintains per-user ownership records.
type CollectionService interface {
	// Add validates the enums, reconciles the title against the catalog, and
	// inserts a fresh ownership record with acquisition date now.
	Add(ctx context.Context, userID int64, gameName, state, platform string) error
	// Edit overwrites play state and platform of an existing record. The
	// record must belong to callerID; otherwise ErrForbidden and no write.
	Edit(ctx context.Context, userGameID, callerID int64, state, platform string) error
	// Upsert inserts or overwrites the record for (UserID, GameID). Repeated
	// invocations leave exactly one row carrying the last call's fields.
	Upsert(ctx context.Context, ug model.UserGame) error
	// List returns the user's collection with game names, ordered by name.
	List(ctx context.Context, userID int64) ([]model.CollectionEntry, error)
}

type CollectionServiceImpl struct {
	userGames repository.UserGameRepository
	catalog   CatalogService
	platforms *model.PlatformSet
}

// NewCollectionService constructs CollectionService.
func NewCollectionService(
	userGames repository.UserGameRepository, catalog CatalogService, platforms *model.PlatformSet,
) *CollectionServiceImpl {
	return &CollectionServiceImpl{userGames: userGames, catalog: catalog, platforms: platforms}
}

// Add records a new owned game for the user.
func (s *CollectionServiceImpl) Add(ctx context.Context, userID int64, gameName, state, platform string) error {
	if userID <= 0 {
		return errors.New("empty userID")
	}
	ps, err := model.ParsePlayState(state)
	if err != nil {
		return err
	}
	pf, err := s.platforms.Parse(platform)
	if err != nil {
		return err
	}

	gameID, err := s.catalog.UpsertByName(ctx, gameName)
	if err != nil {
		return err
	}

	_, err = s.userGames.Insert(ctx, &model.UserGame{
		UserID:          userID,
		GameID:          gameID,
		PlayState:       ps,
		Platform:        pf,
		AcquisitionDate: time.Now(),
	})
	return err
}

// Edit updates play state and platform after the ownership check.
func (s *CollectionServiceImpl) Edit(ctx context.Context, userGameID, callerID int64, state, platform string) error {
	ug, err := s.userGames.Get(ctx, userGameID)
	if err != nil {
		return err
	}
	if ug.UserID != callerID {
		return errs.ErrForbidden
	}
	ps, err := model.ParsePlayState(state)
	if err != nil {
		return err
	}
	pf, err := s.platforms.Parse(platform)
	if err != nil {
		return err
	}
	return s.userGames.UpdateState(ctx, userGameID, ps, pf)
}

// Upsert writes the record through the storage-level conflict clause.
// The enums are re-validated so no unchecked path reaches the repository.
func (s *CollectionServiceImpl) Upsert(ctx context.Context, ug model.UserGame) error {
	if ug.UserID <= 0 || ug.GameID <= 0 {
		return errors.New("empty userID/gameID")
	}
	if _, err := model.ParsePlayState(string(ug.PlayState)); err != nil {
		return err
	}
	if _, err := s.platforms.Parse(string(ug.Platform)); err != nil {
		return err
	}
	return s.userGames.Upsert(ctx, &ug)
}

// List returns the user's collection.
func (s *CollectionServiceImpl) List(ctx context.Context, userID int64) ([]model.CollectionEntry, error) {
	if userID <= 0 {
		return nil, errors.New("empty userID")
	}
	return s.userGames.ListWithNames(ctx, userID)
}
