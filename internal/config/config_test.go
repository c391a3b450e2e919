package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Fatalf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Server.Port = 7700
	cfg.Library.SearchPaths = []string{"/music"}
	cfg.Aliases["favs"] = []string{"pp=play", "v=0.8"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Server.Port != 7700 {
		t.Fatalf("expected port 7700, got %d", loaded.Server.Port)
	}
	if len(loaded.Library.SearchPaths) != 1 || loaded.Library.SearchPaths[0] != "/music" {
		t.Fatalf("search paths did not round-trip: %v", loaded.Library.SearchPaths)
	}
	if len(loaded.Aliases["favs"]) != 2 {
		t.Fatalf("aliases did not round-trip: %v", loaded.Aliases)
	}
}
