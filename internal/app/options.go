package app

import (
	"github.com/famish99/uampd/internal/config"
	"github.com/famish99/uampd/internal/player"
)

// PlayerOptions translates the persisted Playback config into the
// player's Options, applied at startup and again whenever a reloaded
// Config arrives on the bus.
func PlayerOptions(cfg *config.Config) player.Options {
	return player.Options{
		PreviousTimeout: cfg.PreviousTimeout(),
		FadePlayPause:   cfg.FadePlayPause(),
		FadeOut:         cfg.FadeOut(),
		ShuffleCurrent:  cfg.Playback.ShuffleCurrent,
		DefaultOnEnd:    cfg.Playback.DefaultOnEnd,
	}
}
