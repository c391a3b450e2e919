package app

import (
	"path/filepath"
	"time"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/msgbus"
	"github.com/famish99/uampd/internal/tasks"
)

// handleControl applies one Control Msg per the dispatch table in
// spec.md §4.1. Close, LoadNewSongs and Save are reactor-level concerns
// (they own the task registry and shutdown sequencing) and are
// intercepted here; everything else is delegated straight to the player.
func (a *App) handleControl(c control.Control) []msgbus.Msg {
	switch c.Kind {
	case control.Close:
		return a.handleClose()
	case control.LoadNewSongs:
		a.startScan(c.LoadOptions)
		return nil
	case control.Save:
		a.startSave()
		return nil
	}

	follow, ev := a.player.HandleControl(c, a.decode)
	a.publish(ev)
	return follow
}

// handleDataControl applies one DataControl Msg. Alias expansion happens
// here, not in internal/player, since resolving an alias name against
// the configured table is a control-plane concern (spec.md §4.1
// "DataControl(Alias a) | Look up and invoke alias").
func (a *App) handleDataControl(d control.DataControl) []msgbus.Msg {
	switch d.Kind {
	case control.Alias:
		steps, err := a.aliases.Resolve(d.AliasName)
		if err != nil {
			a.log.WithError(err).WithField("alias", d.AliasName).Warn("failed to resolve alias")
			return nil
		}
		follow := make([]msgbus.Msg, 0, len(steps))
		for _, step := range steps {
			if step.IsData {
				follow = append(follow, msgbus.FromData(step.Data))
			} else {
				follow = append(follow, msgbus.FromControl(step.Control))
			}
		}
		return follow

	case control.Restart:
		a.restartExe = d.RestartExe
		return nil
	}

	follow, ev := a.player.HandleDataControl(d, a.decode)
	a.publish(ev)
	return follow
}

// handleClose implements spec.md §4.1's Control(Close) row: save
// (closing=true), notify subscribers, stop the server, then either defer
// via pending_close or exit, depending on whether any non-Server task is
// still running.
func (a *App) handleClose() []msgbus.Msg {
	if !a.closeStarted {
		a.closeStarted = true
		a.startSave()
		a.broadcaster.Publish(quittingSubMsg())
		if a.listener != nil {
			a.srv.Shutdown(a.listener)
		}
	}

	if a.taskReg.AnyRunningExcept(msgbus.TaskServer) {
		a.pendingClose = true
		return nil
	}
	a.exitRequested = true
	return nil
}

// startScan launches the LibraryLoad task against a snapshot of the
// current songs vector (spec.md §4.5). A second scan while one is
// already running is logged, not surfaced, per spec.md §4.1.
func (a *App) startScan(loadOpts control.LoadOptions) {
	snapshot := a.lib.SnapshotSongs()
	opts := library.ScanOptions{
		Roots:         a.cfg.Library.SearchPaths,
		Extensions:    a.cfg.Library.Extensions,
		Recursive:     a.cfg.Library.Recursive,
		RemoveMissing: loadOpts.RemoveMissing,
		AddPolicy:     loadOpts.AddToPlaylist,
	}

	err := tasks.Run(a.taskReg, a.bus, msgbus.TaskLibraryLoad, func() msgbus.TaskResult {
		res, scanErr := library.Scan(snapshot, opts, nil)
		return msgbus.TaskResult{LoadResult: res, Err: scanErr}
	})
	if err != nil {
		a.log.WithError(err).Info("library scan already running")
	}
}

// startSave launches the LibrarySave task against snapshots of songs,
// tmpSongs and the set of in-use temp IDs (spec.md §4.6).
func (a *App) startSave() {
	a.lastSave = time.Now()

	songSnapshot := a.lib.SnapshotSongs()
	tmpSnapshot := a.lib.SnapshotTmpSongs()
	usedIDs := a.player.UsedSongIDs()
	path := a.libraryFilePath()

	err := tasks.Run(a.taskReg, a.bus, msgbus.TaskLibrarySave, func() msgbus.TaskResult {
		if saveErr := library.Save(path, songSnapshot); saveErr != nil {
			return msgbus.TaskResult{Err: saveErr}
		}
		freed := library.ComputeFreedTmpIDs(tmpSnapshot, usedIDs)
		return msgbus.TaskResult{SaveResult: library.SaveResult{FreedTmpIDs: freed}}
	})
	if err != nil {
		a.log.WithError(err).Info("library save already running")
	}
}

func (a *App) libraryFilePath() string {
	if a.libraryPath != "" {
		return a.libraryPath
	}
	return filepath.Join(a.cfg.StateDir, "library.json")
}
