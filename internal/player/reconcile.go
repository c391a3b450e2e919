package player

import (
	"time"

	"github.com/famish99/uampd/internal/library"
)

// ReconcileLibrary drops tombstoned IDs from every playlist in the stack
// and unprefetches, run by the reactor once per step when the pending
// LibraryUpdate level is RemoveData or greater (spec.md §4.4 "Library
// reconciliation").
func (p *Player) ReconcileLibrary(isLive func(library.SongID) bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stack.Current.DropTombstoned(isLive)
	for _, parent := range p.stack.Parents() {
		parent.DropTombstoned(isLive)
	}
	if p.hasPrefetch && p.sink.Unprefetch != nil {
		p.sink.Unprefetch()
	}
	p.hasPrefetch = false
}

// CheckHardPause returns true and clears hardPauseAt if now has reached
// the fade-out completion instant recorded by a prior Pause (spec.md
// §4.1 housekeeping item 2). The caller is responsible for calling
// Player::hard_pause's equivalent release — here, nothing further is
// needed since the sink already finished its own fade; this just clears
// the reactor-side bookkeeping.
func (p *Player) CheckHardPause(now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.hasHardPause {
		return false
	}
	if now.Before(p.hardPauseAt) {
		return false
	}
	p.hasHardPause = false
	return true
}
