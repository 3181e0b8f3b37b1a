package config

import (
	"strings"
	"testing"
	"time"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestLoad_RequiresSessionKey(t *testing.T) {
	t.Setenv("GAMELOG_SESSION_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("want error without session key")
	}

	t.Setenv("GAMELOG_SESSION_KEY", "not-hex")
	if _, err := Load(); err == nil {
		t.Fatalf("want error on non-hex key")
	}

	t.Setenv("GAMELOG_SESSION_KEY", "abcd")
	if _, err := Load(); err == nil {
		t.Fatalf("want error on short key")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GAMELOG_SESSION_KEY", testKeyHex)
	t.Setenv("GAMELOG_DSN", "")
	t.Setenv("GAMELOG_PLATFORMS", "")
	t.Setenv("GAMELOG_SESSION_TTL", "")
	t.Setenv("GAMELOG_STEAM_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.SessionKey) != 32 {
		t.Fatalf("key length = %d", len(cfg.SessionKey))
	}
	if cfg.SessionTTL != DefaultSessionTTL || cfg.SteamTimeout != DefaultSteamTimeout {
		t.Fatalf("defaults not applied: %v %v", cfg.SessionTTL, cfg.SteamTimeout)
	}
	if !strings.Contains(cfg.DatabaseDSN, "postgres://") {
		t.Fatalf("default DSN = %q", cfg.DatabaseDSN)
	}
	if _, err := cfg.Platforms.Parse("pc"); err != nil {
		t.Fatalf("default platform list missing pc: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GAMELOG_SESSION_KEY", testKeyHex)
	t.Setenv("GAMELOG_DSN", "postgres://u:p@db:5432/x")
	t.Setenv("GAMELOG_PLATFORMS", "pc,dreamcast")
	t.Setenv("GAMELOG_SESSION_TTL", "1h")
	t.Setenv("GAMELOG_STEAM_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseDSN != "postgres://u:p@db:5432/x" {
		t.Fatalf("DSN = %q", cfg.DatabaseDSN)
	}
	if cfg.SessionTTL != time.Hour || cfg.SteamTimeout != 3*time.Second {
		t.Fatalf("durations = %v %v", cfg.SessionTTL, cfg.SteamTimeout)
	}
	if _, err := cfg.Platforms.Parse("dreamcast"); err != nil {
		t.Fatalf("configured platform rejected: %v", err)
	}
	if _, err := cfg.Platforms.Parse("switch"); err == nil {
		t.Fatalf("unlisted platform accepted")
	}

	t.Setenv("GAMELOG_SESSION_TTL", "bogus")
	if _, err := Load(); err == nil {
		t.Fatalf("want error on bad TTL")
	}
}
