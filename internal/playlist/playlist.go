// Package playlist implements the ordered, add-policy-aware playlist type
// and its stack semantics (push/push-with-current/pop/flatten/reorder).
package playlist

import (
	"math/rand"
	"sort"

	"github.com/famish99/uampd/internal/alcvec"
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
)

// Playlist is an ordered list of song IDs with a current index, an
// add-policy, an optional on-end alias, and an optional saved
// play-position used when the playlist is pushed onto the stack and
// later popped back to the foreground.
type Playlist struct {
	Songs      *alcvec.AlcVec[library.SongID]
	Current    control.OptInt
	AddPolicy  control.AddPolicy
	OnEnd      string // alias name; "" selects the configured default
	SavedPos   control.OptInt
}

// New builds an empty playlist with the given add-policy.
func New(policy control.AddPolicy) *Playlist {
	return &Playlist{
		Songs:     alcvec.New[library.SongID](nil),
		Current:   control.NoneInt,
		AddPolicy: policy,
	}
}

// FromIDs builds a playlist from an explicit ordered ID list, current unset.
func FromIDs(ids []library.SongID, policy control.AddPolicy) *Playlist {
	return &Playlist{
		Songs:     alcvec.New(ids),
		Current:   control.NoneInt,
		AddPolicy: policy,
	}
}

// Len returns the number of songs in the playlist.
func (p *Playlist) Len() int { return p.Songs.Len() }

// CurrentID returns the song at the current index, or the ghost
// false-return if no song is current.
func (p *Playlist) CurrentID() (library.SongID, bool) {
	if !p.Current.Valid {
		return 0, false
	}
	return p.Songs.At(p.Current.Value)
}

// Add splices id into the playlist according to AddPolicy, relative to
// the current index.
func (p *Playlist) Add(id library.SongID) {
	switch p.AddPolicy {
	case control.PolicyEnd, control.PolicyNone:
		p.Songs.Append(id)
	case control.PolicyNext:
		p.insertAtIndex(p.nextInsertIndex(), id)
	case control.PolicyMixIn:
		p.insertAtIndex(p.mixInIndex(), id)
	}
}

func (p *Playlist) nextInsertIndex() int {
	if !p.Current.Valid {
		return p.Songs.Len()
	}
	return p.Current.Value + 1
}

// mixInIndex picks a random index after the current song (spec.md
// GLOSSARY: "Add-policy" MixIn splices randomly after current).
func (p *Playlist) mixInIndex() int {
	lo := p.nextInsertIndex()
	span := p.Songs.Len() - lo
	if span <= 0 {
		return lo
	}
	return lo + rand.Intn(span+1)
}

// InsertAt splices id into the playlist at idx, clamped to [0, Len()],
// adjusting Current to track the same song if the insertion point falls
// at or before it. Used by DataControl(PlayNext) to insert immediately
// after the currently playing song regardless of AddPolicy.
func (p *Playlist) InsertAt(idx int, id library.SongID) {
	p.insertAtIndex(idx, id)
}

func (p *Playlist) insertAtIndex(idx int, id library.SongID) {
	n := p.Songs.Len()
	if idx < 0 {
		idx = 0
	}
	if idx > n {
		idx = n
	}
	all := append([]library.SongID(nil), p.Songs.All()...)
	all = append(all, 0)
	copy(all[idx+1:], all[idx:n])
	all[idx] = id
	p.Songs = alcvec.New(all)
	if p.Current.Valid && idx <= p.Current.Value {
		p.Current.Value++
	}
}

// Advance moves current forward by n (may be negative for PrevSong with
// an explicit count). Returns false if the playlist ran off the end,
// signalling playlist_ended.
func (p *Playlist) Advance(n int) bool {
	if !p.Current.Valid {
		if p.Songs.Len() == 0 {
			return false
		}
		p.Current = control.SomeInt(0)
		n = 0
	}
	next := p.Current.Value + n
	if next < 0 {
		next = 0
	}
	if next >= p.Songs.Len() {
		return false
	}
	p.Current = control.SomeInt(next)
	return true
}

// Shuffle randomizes the playlist order. If shuffleCurrent is false and a
// song is currently playing, that song is relocated to index 0 so
// playback continues without interruption (spec.md §4.4 scenario 3);
// otherwise the shuffle is unconstrained and current is relocated to
// wherever its song landed.
func (p *Playlist) Shuffle(shuffleCurrent bool) {
	all := append([]library.SongID(nil), p.Songs.All()...)
	if len(all) == 0 {
		return
	}

	var curID library.SongID
	hadCur := p.Current.Valid
	if hadCur {
		curID = all[p.Current.Value]
	}

	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	if hadCur && !shuffleCurrent {
		for i, id := range all {
			if id == curID && i != 0 {
				all[i], all[0] = all[0], all[i]
				break
			}
		}
		p.Current = control.SomeInt(0)
	} else if hadCur {
		for i, id := range all {
			if id == curID {
				p.Current = control.SomeInt(i)
				break
			}
		}
	}

	p.Songs = alcvec.New(all)
}

// Sort orders the playlist per ord (spec.md §4.8), relocating Current to
// track the playing song's new position.
func (p *Playlist) Sort(ord control.SongOrder, lookup func(library.SongID) library.Song) {
	all := append([]library.SongID(nil), p.Songs.All()...)
	var curID library.SongID
	hadCur := p.Current.Valid
	if hadCur {
		curID = all[p.Current.Value]
	}

	less := sortLess(ord, lookup, all)
	sort.SliceStable(all, less)
	if ord.ReverseFlag {
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
	}

	p.Songs = alcvec.New(all)
	if hadCur {
		for i, id := range all {
			if id == curID {
				p.Current = control.SomeInt(i)
				break
			}
		}
	}
}

func sortLess(ord control.SongOrder, lookup func(library.SongID) library.Song, ids []library.SongID) func(i, j int) bool {
	field := ord.Field
	return func(i, j int) bool {
		a, b := lookup(ids[i]), lookup(ids[j])
		if c, ok := compareField(field, a, b); ok && c != 0 {
			return c < 0
		}
		if ord.Simple {
			return false
		}
		// Tie-breaker chain: album -> disc -> track -> title (spec.md §4.8).
		for _, tb := range []control.Field{control.Album, control.Disc, control.Track, control.Title} {
			if tb == field {
				continue
			}
			if c, ok := compareField(tb, a, b); ok && c != 0 {
				return c < 0
			}
		}
		return false
	}
}

func compareField(field control.Field, a, b library.Song) (int, bool) {
	switch field {
	case control.Path:
		return stringCmp(a.Path, b.Path), true
	case control.Title:
		return stringCmp(a.Title, b.Title), true
	case control.Artist:
		return stringCmp(a.Artist, b.Artist), true
	case control.Album:
		return stringCmp(a.Album, b.Album), true
	case control.Genre:
		return stringCmp(a.Genre, b.Genre), true
	case control.Track:
		return intCmp(a.Track, b.Track), true
	case control.Disc:
		return intCmp(a.Disc, b.Disc), true
	case control.Year:
		return intCmp(a.Year, b.Year), true
	case control.Length:
		return intCmp(int(a.Length), int(b.Length)), true
	default:
		return 0, false
	}
}

func stringCmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func intCmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// DropTombstoned removes any song ID whose library entry is tombstoned,
// adjusting Current to stay pointed at the same song if it survives
// (spec.md §4.4 "Library reconciliation").
func (p *Playlist) DropTombstoned(isLive func(library.SongID) bool) {
	all := p.Songs.All()
	var curID library.SongID
	hadCur := p.Current.Valid
	if hadCur {
		curID = all[p.Current.Value]
	}

	kept := make([]library.SongID, 0, len(all))
	for _, id := range all {
		if isLive(id) {
			kept = append(kept, id)
		}
	}
	p.Songs = alcvec.New(kept)

	if !hadCur {
		return
	}
	for i, id := range kept {
		if id == curID {
			p.Current = control.SomeInt(i)
			return
		}
	}
	p.Current = control.NoneInt
}
