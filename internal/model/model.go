// Package model defines domain entities used by services and repositories.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/gamelog-dev/gamelog/internal/errs"
)

// PlayState is a validated progress status of a user's relationship to a game.
// Values are constructed through ParsePlayState only.
type PlayState string

// The full play state set, Backloggery-style. "null" is a real state meaning
// "no opinion recorded", not an absent value.
const (
	StateUnplayed    PlayState = "unplayed"
	StateUnfinished  PlayState = "unfinished"
	StateBeaten      PlayState = "beaten"
	StateCompleted   PlayState = "completed"
	StateHundred     PlayState = "100_percent"
	StateWontBeat    PlayState = "wont_beat"
	StateMultiplayer PlayState = "multiplayer"
	StateNull        PlayState = "null"
)

var playStates = map[PlayState]struct{}{
	StateUnplayed:    {},
	StateUnfinished:  {},
	StateBeaten:      {},
	StateCompleted:   {},
	StateHundred:     {},
	StateWontBeat:    {},
	StateMultiplayer: {},
	StateNull:        {},
}

// ParsePlayState returns the typed play state or ErrInvalidEnum.
func ParsePlayState(s string) (PlayState, error) {
	ps := PlayState(s)
	if _, ok := playStates[ps]; !ok {
		return "", fmt.Errorf("play state %q: %w", s, errs.ErrInvalidEnum)
	}
	return ps, nil
}

// Platform is a validated platform name from the configured allow-list.
type Platform string

// PlatformSet is the configured platform allow-list. Loaded once at startup,
// read-only afterward.
type PlatformSet struct {
	allowed map[Platform]struct{}
	names   []string
}

// NewPlatformSet builds an allow-list from configured platform names.
func NewPlatformSet(names []string) *PlatformSet {
	set := &PlatformSet{allowed: make(map[Platform]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		p := Platform(n)
		if _, dup := set.allowed[p]; dup {
			continue
		}
		set.allowed[p] = struct{}{}
		set.names = append(set.names, n)
	}
	return set
}

// Parse returns the typed platform or ErrInvalidEnum.
func (s *PlatformSet) Parse(name string) (Platform, error) {
	p := Platform(name)
	if _, ok := s.allowed[p]; !ok {
		return "", fmt.Errorf("platform %q: %w", name, errs.ErrInvalidEnum)
	}
	return p, nil
}

// Names returns the configured platform names in configuration order.
func (s *PlatformSet) Names() []string { return append([]string(nil), s.names...) }

// User is an account. SteamID is the optional external account link.
type User struct {
	ID        int64
	Username  string // unique
	Email     string // unique
	SteamID   string // optional, unique when set; empty means not linked
	CreatedAt time.Time
}

// Credential is the 1:1 private half of a user: password hash plus per-user salt.
// Created in the same transaction as the user row.
type Credential struct {
	UserID       int64
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}

// Game is a catalog entry. SteamAppID links it to the external catalog;
// zero means no external id.
type Game struct {
	ID         int64
	Name       string // unique
	SteamAppID int64  // unique when non-zero
}

// UserGame is the ownership record, unique on (UserID, GameID).
type UserGame struct {
	ID              int64
	UserID          int64
	GameID          int64
	PlayState       PlayState
	Platform        Platform
	AcquisitionDate time.Time
	StartDate       *time.Time
	BeatDate        *time.Time
}

// CollectionEntry pairs an ownership record with its game's name for display.
type CollectionEntry struct {
	GameName string
	UserGame UserGame
}
