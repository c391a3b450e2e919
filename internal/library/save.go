package library

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/famish99/uampd/internal/alcvec"
	"github.com/famish99/uampd/internal/errs"
)

// SaveResult is produced by the LibrarySave task: the list of temp-song
// IDs that are no longer referenced by any playlist and can therefore be
// compacted away by the reactor (spec.md §4.6).
type SaveResult struct {
	FreedTmpIDs []SongID
}

// Save serializes songSnapshot to path atomically (temp file + rename),
// compacting trailing tombstones first. This is the body of the
// LibrarySave task: it touches only the snapshot it was handed, never
// live Library state (spec.md §4.3, §4.6). Grounded on the teacher's
// internal/cache/diskcache.go atomic-write-then-rename pattern,
// generalized from cached PCM blobs to the whole library.
func Save(path string, songSnapshot *alcvec.Snapshot[Song]) error {
	songs := append([]Song(nil), songSnapshot.All()...)
	n := len(songs)
	for n > 0 && songs[n-1].Deleted {
		n--
	}
	songs = songs[:n]

	data, err := json.MarshalIndent(songs, "", "  ")
	if err != nil {
		return errs.Wrap(errs.Serde, "failed to marshal library", err)
	}

	return atomicWrite(path, data)
}

// ComputeFreedTmpIDs compares the set of temp SongIDs in use (as used
// still means "referenced by some playlist") against tmpSongs' current
// extent and returns those beyond usedIDs, matching spec.md §4.6: the
// saver takes a snapshot of which IDs are "used" by any playlist and
// reports the rest as free.
func ComputeFreedTmpIDs(tmpSnapshot *alcvec.Snapshot[Song], usedIDs map[SongID]bool) []SongID {
	var freed []SongID
	n := tmpSnapshot.Len()
	for i := 0; i < n; i++ {
		id := MaxSongID - SongID(i)
		if !usedIDs[id] {
			freed = append(freed, id)
		}
	}
	return freed
}

// atomicWrite creates the parent directory if needed, writes data to a
// temp file alongside path, then renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.Io, "failed to create state directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errs.Wrap(errs.Io, "failed to create temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errs.Wrap(errs.Io, "failed to write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errs.Wrap(errs.Io, "failed to close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errs.Wrap(errs.Io, "failed to replace library file", err)
	}
	return nil
}

// Load reads library.json from path into a fresh Library. A missing file
// yields an empty library, not an error.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errs.Wrap(errs.Io, "failed to read library file", err)
	}

	var songs []Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, errs.Wrap(errs.Serde, "failed to parse library file", err)
	}

	lib := New()
	for _, s := range songs {
		lib.songs.Append(s)
	}
	return lib, nil
}
