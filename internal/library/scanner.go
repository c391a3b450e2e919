package library

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"

	"github.com/famish99/uampd/internal/alcvec"
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/errs"
)

// ScanOptions configures a single scan, passed by value into the
// LibraryLoad task so it never reads live reactor state (spec.md §4.3).
// AddPolicy is carried straight through to LoadResult unexamined — the
// scan never decides whether/how to queue its new songs, only the caller
// does (spec.md §4.5 "an optional add-policy"; ground truth
// LoadOpts.add_to_playlist in original_source/src/core/library/lib.rs).
type ScanOptions struct {
	Roots         []string
	Extensions    []string
	Recursive     bool
	RemoveMissing bool
	AddPolicy     control.OptAddPolicy
}

// LoadResult is what a LibraryLoad task produces: the possibly-mutated
// songs vector, the index of the first newly-appended song, the list of
// sparse-new IDs (slots reclaimed from tombstones), whether any song was
// marked removed, and the add-policy (if any) passed through from
// ScanOptions, used by the reactor to queue the new songs into every live
// playlist (spec.md §4.5). Grounded on spec.md §4.5's described algorithm
// output and on 9lbw-staccato/internal/metadata/extractor.go's
// tag.ReadFrom + filename-fallback-title pattern for metadata.
type LoadResult struct {
	Songs     []Song
	FirstNew  int
	SparseNew []SongID
	Removed   bool
	AddPolicy control.OptAddPolicy
}

// Scan runs the directory-first, set-backed algorithm of spec.md §4.5
// against snapshot (the songs vector as of scan start) and opts. It never
// touches the live Library; the reactor merges the result back via
// Library.ApplyScanResult. This is the body of the LibraryLoad task.
func Scan(snapshot *alcvec.Snapshot[Song], opts ScanOptions, extractTags func(path string) (Song, error)) (LoadResult, error) {
	if extractTags == nil {
		extractTags = extractMetadata
	}

	songs := append([]Song(nil), snapshot.All()...)
	firstNew := len(songs)
	removed := false
	var sparseNew []SongID

	allowed := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	// Step 1: canonicalise roots, seed the set of directories to visit.
	rootSet := make(map[string]bool)
	var queue []string
	for _, root := range opts.Roots {
		canon, err := filepath.EvalSymlinks(root)
		if err != nil {
			canon = root // best effort: keep scanning other roots
		}
		if !rootSet[canon] {
			rootSet[canon] = true
			queue = append(queue, canon)
		}
	}
	sort.Strings(queue)

	// Step 2: if remove_missing, mark songs whose path no longer exists.
	var sparseSlots []int
	if opts.RemoveMissing {
		for i, s := range songs {
			if s.Deleted {
				continue
			}
			if _, err := os.Stat(s.Path); err != nil {
				songs[i].Deleted = true
				removed = true
				sparseSlots = append(sparseSlots, i)
			}
		}
	}
	// Slots freed by this scan's own removals are also fair game for
	// reclamation by new songs found below, alongside pre-existing
	// tombstones.
	for i, s := range songs {
		if s.Deleted && !containsInt(sparseSlots, i) {
			sparseSlots = append(sparseSlots, i)
		}
	}
	sort.Ints(sparseSlots)

	// Step 3: canonical-path -> index map of existing live songs.
	existing := make(map[string]int, len(songs))
	for i, s := range songs {
		if !s.Deleted {
			existing[s.Path] = i
		}
	}

	// Step 4: walk the queue.
	seenDirs := make(map[string]bool)
	slotCursor := 0
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]
		if seenDirs[dir] {
			continue
		}
		seenDirs[dir] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue // unreadable directory: skip, don't fail the whole scan
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())

			resolved, err := filepath.EvalSymlinks(full)
			if err != nil {
				resolved = full
			}

			info, err := os.Stat(resolved)
			if err != nil {
				continue
			}

			if info.IsDir() {
				if opts.Recursive && !seenDirs[resolved] {
					queue = append(queue, resolved)
				}
				continue
			}

			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(resolved), "."))
			if !allowed[ext] {
				continue
			}
			if _, already := existing[resolved]; already {
				continue
			}

			song, err := extractTags(resolved)
			if err != nil {
				continue // unreadable/unsupported file: skip, don't fail the scan
			}
			existing[resolved] = -1 // placeholder to prevent duplicate processing

			if slotCursor < len(sparseSlots) {
				slot := sparseSlots[slotCursor]
				slotCursor++
				songs[slot] = song
				sparseNew = append(sparseNew, SongID(slot))
			} else {
				songs = append(songs, song)
			}
		}
		sort.Strings(queue)
	}

	return LoadResult{
		Songs:     songs,
		FirstNew:  firstNew,
		SparseNew: sparseNew,
		Removed:   removed,
		AddPolicy: opts.AddPolicy,
	}, nil
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// ExtractMetadata is the exported form of the default tag extractor, for
// callers outside the scanner (e.g. DataControl(PlayTmp) handling in
// internal/player) that need to build a Song record for a single path
// without running a full scan.
func ExtractMetadata(path string) (Song, error) {
	return extractMetadata(path)
}

// extractMetadata is the default tag extractor, grounded on
// 9lbw-staccato/internal/metadata/extractor.go: read tags via dhowden/tag,
// falling back to the filename (extension stripped) as the title.
func extractMetadata(path string) (Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return Song{}, errs.Wrap(errs.Io, "failed to open audio file", err)
	}
	defer f.Close()

	song := Song{Path: path}

	m, err := tag.ReadFrom(f)
	if err != nil {
		song.Title = titleFromFilename(path)
		return song, nil
	}

	song.Title = m.Title()
	if song.Title == "" {
		song.Title = titleFromFilename(path)
	}
	song.Artist = m.Artist()
	song.Album = m.Album()
	song.Year = m.Year()
	song.Genre = m.Genre()
	disc, _ := m.Disc()
	song.Disc = disc
	track, _ := m.Track()
	song.Track = track

	return song, nil
}

func titleFromFilename(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
