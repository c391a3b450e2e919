package app

import (
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/msgbus"
	"github.com/famish99/uampd/internal/player"
)

// handlePlayerEvent reacts to a PlayerEvent posted by the player or its
// sink callbacks (spec.md §4.4). Prefetch and source-ended are the two
// cases the reactor must act on; Failed is logged and otherwise ignored.
func (a *App) handlePlayerEvent(ev msgbus.PlayerEvent) []msgbus.Msg {
	switch ev.Kind {
	case msgbus.PlayerEventPrefetchTime:
		a.player.Prefetch(a.decode)
		return nil

	case msgbus.PlayerEventSourceEnded:
		if a.player.AdvanceGapless() {
			a.publish(player.Event{Kind: player.EventPlaylistJump})
			return nil
		}
		return []msgbus.Msg{msgbus.FromControl(control.Next(1))}

	case msgbus.PlayerEventFailed:
		a.log.WithError(ev.Err).Warn("player reported a playback failure")
		return nil
	}
	return nil
}

// handleTaskResult applies a completed background task's outcome
// (spec.md §4.3): merge a library scan, clear dirty/free temp songs
// after a save, or just log a server failure.
func (a *App) handleTaskResult(res msgbus.TaskResult) []msgbus.Msg {
	switch res.Kind {
	case msgbus.TaskLibraryLoad:
		if res.Err != nil {
			a.log.WithError(res.Err).Warn("library scan failed")
			return nil
		}
		a.lib.ApplyScanResult(res.LoadResult)
		if res.LoadResult.AddPolicy.Valid {
			a.player.AddSongs(newlyScannedIDs(res.LoadResult), res.LoadResult.AddPolicy.Value)
		}
		return nil

	case msgbus.TaskLibrarySave:
		if res.Err != nil {
			a.log.WithError(res.Err).Warn("library save failed")
			return nil
		}
		a.lib.ClearDirty()
		a.lib.FreeTmpSongs(res.SaveResult.FreedTmpIDs)
		return nil

	case msgbus.TaskServer:
		if res.Err != nil {
			a.log.WithError(res.Err).Warn("control server stopped")
		}
		return nil
	}
	return nil
}

// reconcileDeleted is passed to player.ReconcileLibrary so it can tell a
// tombstoned SongID from a live one without reaching into the library's
// internals itself.
func (a *App) reconcileDeleted(id library.SongID) bool {
	return !a.lib.Get(id).Deleted
}

// newlyScannedIDs lists every SongID a scan newly found: the appended
// tail starting at FirstNew plus any SparseNew slots reclaimed from
// tombstones (spec.md §4.5).
func newlyScannedIDs(res library.LoadResult) []library.SongID {
	ids := make([]library.SongID, 0, len(res.Songs)-res.FirstNew+len(res.SparseNew))
	for i := res.FirstNew; i < len(res.Songs); i++ {
		ids = append(ids, library.SongID(i))
	}
	ids = append(ids, res.SparseNew...)
	return ids
}
