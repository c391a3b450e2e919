package library

import (
	"sync"

	"github.com/famish99/uampd/internal/alcvec"
)

// UpdateLevel is totally ordered per spec.md §3: None < NewData <
// RemoveData. The reactor merges pending updates monotonically between
// messages and the player reconciles once the level reaches RemoveData.
type UpdateLevel int

const (
	UpdateNone UpdateLevel = iota
	UpdateNewData
	UpdateRemoveData
)

// Merge returns the larger (later in the total order) of the two levels.
func (l UpdateLevel) Merge(other UpdateLevel) UpdateLevel {
	if other > l {
		return other
	}
	return l
}

// Library is the song collection: two lazily-cloned vectors (songs,
// tmpSongs), a pending update level and a dirty flag. Every method takes
// mu, so it is safe for concurrent use; mutation happens on the reactor
// thread (spec.md §5) and background tasks only ever see Snapshot() results.
type Library struct {
	mu sync.Mutex // guards the fields below; held only briefly, never across I/O

	songs    *alcvec.AlcVec[Song]
	tmpSongs *alcvec.AlcVec[Song]

	pending UpdateLevel
	dirty   bool
}

// New creates an empty library.
func New() *Library {
	return &Library{
		songs:    alcvec.New[Song](nil),
		tmpSongs: alcvec.New[Song](nil),
	}
}

// Get returns the song for id, or the ghost sentinel (Deleted=true) if id
// is out of range or tombstoned, so callers never need a presence branch.
func (l *Library) Get(id SongID) Song {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getLocked(id)
}

func (l *Library) getLocked(id SongID) Song {
	if l.IsTempLocked(id) {
		idx := int(MaxSongID - id)
		if song, ok := l.tmpSongs.At(idx); ok && !song.Deleted {
			return song
		}
		return ghost
	}
	if song, ok := l.songs.At(int(id)); ok && !song.Deleted {
		return song
	}
	return ghost
}

// IsTemp reports whether id currently addresses the temporary-songs
// range, given how many temporary songs exist right now.
func (l *Library) IsTemp(id SongID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := l.tmpSongs.Len()
	return n > 0 && id > MaxSongID-SongID(n)
}

// Len returns the number of entries in the persistent library, including
// tombstones.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.songs.Len()
}

// Live returns every non-tombstoned persistent SongID, in order.
func (l *Library) Live() []SongID {
	l.mu.Lock()
	defer l.mu.Unlock()
	var ids []SongID
	for i, s := range l.songs.All() {
		if !s.Deleted {
			ids = append(ids, SongID(i))
		}
	}
	return ids
}

// Delete tombstones id (persistent range only; a no-op for temp IDs,
// which are dropped wholesale by the save step instead).
func (l *Library) Delete(id SongID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.IsTempLocked(id) {
		return
	}
	if song, ok := l.songs.At(int(id)); ok && !song.Deleted {
		song.Deleted = true
		l.songs.Set(int(id), song)
		l.pending = l.pending.Merge(UpdateRemoveData)
		l.dirty = true
	}
}

// IsTempLocked is IsTemp for callers already holding l.mu.
func (l *Library) IsTempLocked(id SongID) bool {
	n := l.tmpSongs.Len()
	return n > 0 && id > MaxSongID-SongID(n)
}

// PendingUpdate returns and clears the pending update level. The reactor
// calls this once per step (spec.md §4.1 housekeeping item 4) and
// notifies the player with the drained level.
func (l *Library) PendingUpdate() UpdateLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	level := l.pending
	l.pending = UpdateNone
	return level
}

// Dirty reports whether the library has unsaved changes.
func (l *Library) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

// ClearDirty marks the library clean, called after a successful save.
func (l *Library) ClearDirty() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dirty = false
}

// PlayTmp appends song to the temporary-songs vector and returns its
// SongID, used when a client asks to play a bare file path not present
// in the persistent library.
func (l *Library) PlayTmp(song Song) SongID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tmpSongs.Append(song)
	idx := l.tmpSongs.Len() - 1
	return MaxSongID - SongID(idx)
}

// SnapshotSongs hands a background task (scanner or saver) an immutable
// view of the persistent songs vector without blocking further mutation.
func (l *Library) SnapshotSongs() *alcvec.Snapshot[Song] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.songs.Snapshot()
}

// SnapshotTmpSongs hands the LibrarySave task an immutable view of the
// temporary-songs vector, used alongside SnapshotSongs to compute which
// temp IDs are no longer referenced by any playlist (spec.md §4.6).
func (l *Library) SnapshotTmpSongs() *alcvec.Snapshot[Song] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tmpSongs.Snapshot()
}

// ApplyScanResult merges a LibraryLoadResult produced off-thread by the
// scanner back into the live library. Returns the merged update level.
func (l *Library) ApplyScanResult(res LoadResult) UpdateLevel {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, s := range res.Songs {
		if i < l.songs.Len() {
			l.songs.Set(i, s)
		} else {
			l.songs.Append(s)
		}
	}

	level := UpdateNone
	if len(res.SparseNew) > 0 || res.FirstNew < len(res.Songs) {
		level = level.Merge(UpdateNewData)
	}
	if res.Removed {
		level = level.Merge(UpdateRemoveData)
	}
	if level != UpdateNone {
		l.pending = l.pending.Merge(level)
		l.dirty = true
	}
	return level
}

// CompactTrailingTombstones drops tombstoned entries from the end of the
// persistent vector, used before save and by the scanner.
func (l *Library) CompactTrailingTombstones() {
	l.mu.Lock()
	defer l.mu.Unlock()
	songs := l.songs.All()
	n := len(songs)
	for n > 0 && songs[n-1].Deleted {
		n--
	}
	l.songs.Truncate(n)
}

// FreeTmpSongs marks the given temporary SongIDs deleted and compacts
// trailing tombstones from tmpSongs, called by the reactor after a save
// task reports which temp IDs are no longer referenced by any playlist.
func (l *Library) FreeTmpSongs(ids []SongID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		idx := int(MaxSongID - id)
		if song, ok := l.tmpSongs.At(idx); ok {
			song.Deleted = true
			l.tmpSongs.Set(idx, song)
		}
	}
	tmp := l.tmpSongs.All()
	n := len(tmp)
	for n > 0 && tmp[n-1].Deleted {
		n--
	}
	l.tmpSongs.Truncate(n)
}
