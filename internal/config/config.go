// Package config loads and saves the daemon's persisted configuration,
// generalizing the teacher's single-purpose YAML target list into the
// full set of knobs the reactor, player and library need.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// StateDirEnvVar is the only environment variable the core recognizes,
// per spec §6: an override for the directory holding config.yaml,
// library.json and player.json.
const StateDirEnvVar = "UAMPD_STATE_DIR"

// Server holds the TCP control-plane listen address.
type Server struct {
	Address string `yaml:"address"`
	Port    uint16 `yaml:"port"`
}

// Library holds scanner configuration.
type Library struct {
	SearchPaths     []string `yaml:"search_paths"`
	Extensions      []string `yaml:"extensions"`
	Recursive       bool     `yaml:"recursive_search"`
	RemoveMissing   bool     `yaml:"remove_missing"`
	Watch           bool     `yaml:"watch"`
}

// Playback holds player timing knobs.
type Playback struct {
	FadePlayPauseMillis int  `yaml:"fade_play_pause_ms"`
	FadeOutMillis       int  `yaml:"fade_out_ms"`
	PreviousTimeoutMs   int  `yaml:"previous_timeout_ms"`
	SaveTimeoutSeconds  int  `yaml:"save_timeout_seconds"`
	ShuffleCurrent      bool `yaml:"shuffle_current"`
	DefaultOnEnd        string `yaml:"default_on_end,omitempty"`
}

// Config is the full daemon configuration persisted as config.yaml.
type Config struct {
	Server    Server            `yaml:"server"`
	Library   Library           `yaml:"library"`
	Playback  Playback          `yaml:"playback"`
	Aliases   map[string][]string `yaml:"aliases,omitempty"`
	StateDir  string            `yaml:"-"` // resolved, not persisted
}

// Default returns a Config with reasonable defaults, mirroring the
// teacher's DefaultConfig.
func Default() *Config {
	return &Config{
		Server: Server{Address: "127.0.0.1", Port: 6630},
		Library: Library{
			Extensions: []string{"flac", "mp3", "ogg", "m4a", "wav"},
			Recursive:  true,
		},
		Playback: Playback{
			FadePlayPauseMillis: 200,
			FadeOutMillis:       300,
			PreviousTimeoutMs:   2000,
			SaveTimeoutSeconds:  300,
			ShuffleCurrent:      false,
		},
		Aliases: map[string][]string{},
	}
}

// PreviousTimeout returns the configured previous-song double-press window.
func (c *Config) PreviousTimeout() time.Duration {
	return time.Duration(c.Playback.PreviousTimeoutMs) * time.Millisecond
}

// SaveTimeout returns the configured auto-save interval.
func (c *Config) SaveTimeout() time.Duration {
	return time.Duration(c.Playback.SaveTimeoutSeconds) * time.Second
}

// FadePlayPause returns the fade-in duration used when a song is loaded
// to start playing.
func (c *Config) FadePlayPause() time.Duration {
	return time.Duration(c.Playback.FadePlayPauseMillis) * time.Millisecond
}

// FadeOut returns the fade-out duration used when pausing; the hard pause
// falls when this fade ends.
func (c *Config) FadeOut() time.Duration {
	return time.Duration(c.Playback.FadeOutMillis) * time.Millisecond
}

// ResolveStateDir determines the state directory: UAMPD_STATE_DIR (loaded
// via an optional .env first, per the teacher's joho/godotenv-free but
// 9lbw-staccato-grounded startup convention) overrides the given default.
func ResolveStateDir(fallback string) string {
	_ = godotenv.Load() // optional; absence of .env is not an error

	if dir := os.Getenv(StateDirEnvVar); dir != "" {
		return dir
	}
	return fallback
}

// Load reads config.yaml from path. A missing file yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
