package player

import (
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/playlist"
)

// Snapshot is a consistent, lock-free-to-read copy of the fields the
// reactor needs to answer an Info request or publish a delta, taken
// under p.mu so the caller never reaches into Player/Playlist fields
// directly from another goroutine.
type Snapshot struct {
	State         State
	Volume        float64
	Mute          bool
	HasCurrent    bool
	CurrentSongID library.SongID
	PlaylistLen   int
	StackDepth    int
	AddPolicy     control.AddPolicy
}

// Snapshot takes a point-in-time copy of player state for the protocol's
// Info reply and for building SubMsg deltas (spec.md §6).
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := p.stack.Current
	snap := Snapshot{
		State:       p.state,
		Volume:      p.volume,
		Mute:        p.mute,
		PlaylistLen: cur.Len(),
		StackDepth:  len(p.stack.Parents()),
		AddPolicy:   cur.AddPolicy,
	}
	if id, ok := cur.CurrentID(); ok {
		snap.HasCurrent = true
		snap.CurrentSongID = id
	}
	return snap
}

// UsedSongIDs returns every SongID referenced by the foreground playlist
// or any parent on the stack, used by the LibrarySave task to decide
// which temporary songs are still reachable (spec.md §4.6).
func (p *Player) UsedSongIDs() map[library.SongID]bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	used := make(map[library.SongID]bool)
	add := func(pl *playlist.Playlist) {
		for _, id := range pl.Songs.All() {
			used[id] = true
		}
	}
	add(p.stack.Current)
	for _, parent := range p.stack.Parents() {
		add(parent)
	}
	return used
}
