package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/gamelog-dev/gamelog/internal/model"
	"github.com/gamelog-dev/gamelog/internal/steam"
)

// steamPlatform is the platform recorded for imported entries. It must be in
// the configured allow-list for sync to run.
const steamPlatform = "pc"

// OwnedGamesFetcher provides the external owned-games list.
type OwnedGamesFetcher interface {
	OwnedGames(ctx context.Context, steamID string) ([]steam.OwnedGame, error)
}

// SyncService imports a Steam library into the local collection.
type SyncService interface {
	// Sync fetches the owned-games list for the account and reconciles every
	// entry into the user's collection. Concurrent calls for the same account
	// are collapsed into one run. A failing item is skipped, not fatal; the
	// returned error joins all per-item failures.
	Sync(ctx context.Context, userID int64, steamID string) error
}

type SyncServiceImpl struct {
	fetcher    OwnedGamesFetcher
	catalog    CatalogService
	collection CollectionService
	log        *zap.Logger

	group singleflight.Group
}

// NewSyncService constructs SyncService.
func NewSyncService(
	fetcher OwnedGamesFetcher, catalog CatalogService, collection CollectionService, log *zap.Logger,
) *SyncServiceImpl {
	return &SyncServiceImpl{fetcher: fetcher, catalog: catalog, collection: collection, log: log}
}

// Sync runs the import, serialized per Steam account.
func (s *SyncServiceImpl) Sync(ctx context.Context, userID int64, steamID string) error {
	if userID <= 0 || steamID == "" {
		return errors.New("empty userID/steamID")
	}
	_, err, _ := s.group.Do(steamID, func() (any, error) {
		return nil, s.run(ctx, userID, steamID)
	})
	return err
}

func (s *SyncServiceImpl) run(ctx context.Context, userID int64, steamID string) error {
	runID := uuid.Must(uuid.NewV4())
	log := s.log.With(
		zap.String("run_id", runID.String()),
		zap.Int64("user_id", userID),
		zap.String("steam_id", steamID),
	)

	games, err := s.fetcher.OwnedGames(ctx, steamID)
	if err != nil {
		return fmt.Errorf("fetch owned games: %w", err)
	}
	log.Info("steam sync started", zap.Int("games", len(games)))

	var (
		itemErrs []error
		synced   int
	)
	for _, g := range games {
		if err := s.syncOne(ctx, userID, g); err != nil {
			log.Warn("sync item failed",
				zap.Int64("app_id", g.AppID),
				zap.Error(err),
			)
			itemErrs = append(itemErrs, fmt.Errorf("app %d: %w", g.AppID, err))
			continue
		}
		synced++
	}

	log.Info("steam sync finished",
		zap.Int("synced", synced),
		zap.Int("failed", len(itemErrs)),
	)
	return errors.Join(itemErrs...)
}

// syncOne reconciles a single owned game. Running it again for the same entry
// overwrites the same row instead of creating a second one.
func (s *SyncServiceImpl) syncOne(ctx context.Context, userID int64, g steam.OwnedGame) error {
	gameID, err := s.catalog.UpsertBySteamAppID(ctx, g.AppID, g.Name)
	if err != nil {
		return err
	}

	now := time.Now()
	ug := model.UserGame{
		UserID:          userID,
		GameID:          gameID,
		PlayState:       model.StateUnplayed,
		Platform:        model.Platform(steamPlatform),
		AcquisitionDate: now,
	}
	if g.PlaytimeForever > 0 {
		ug.PlayState = model.StateUnfinished
		ug.StartDate = &now
	}
	return s.collection.Upsert(ctx, ug)
}
