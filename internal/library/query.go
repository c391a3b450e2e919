package library

import (
	"sort"
	"strings"

	"github.com/famish99/uampd/internal/control"
)

// Resolve returns the live SongIDs matching q's filter, ordered per
// q.Order. Used by the player when handling Set/Push/Queue/PlayNext and
// by the server when handling the protocol's Query request (spec.md §6).
func (l *Library) Resolve(q control.Query) []SongID {
	l.mu.Lock()
	all := l.songs.All()
	songs := make([]Song, len(all))
	copy(songs, all)
	l.mu.Unlock()

	var matched []SongID
	for i, s := range songs {
		if s.Deleted {
			continue
		}
		if matchesAll(s, q.Filter) {
			matched = append(matched, SongID(i))
		}
	}

	if q.Order.Field == control.Same {
		return matched
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := songs[matched[i]], songs[matched[j]]
		c := compare(q.Order.Field, a, b)
		if q.Order.ReverseFlag {
			c = -c
		}
		return c < 0
	})
	return matched
}

func matchesAll(s Song, terms []control.FilterTerm) bool {
	for _, t := range terms {
		if !matchesTerm(s, t) {
			return false
		}
	}
	return true
}

func matchesTerm(s Song, t control.FilterTerm) bool {
	needle := strings.ToLower(t.Substring)
	switch strings.ToLower(t.Field) {
	case "artist":
		return strings.Contains(strings.ToLower(s.Artist), needle)
	case "album":
		return strings.Contains(strings.ToLower(s.Album), needle)
	case "title":
		return strings.Contains(strings.ToLower(s.Title), needle)
	case "genre":
		return strings.Contains(strings.ToLower(s.Genre), needle)
	case "path":
		return strings.Contains(strings.ToLower(s.Path), needle)
	case "":
		return strings.Contains(strings.ToLower(s.Artist), needle) ||
			strings.Contains(strings.ToLower(s.Album), needle) ||
			strings.Contains(strings.ToLower(s.Title), needle) ||
			strings.Contains(strings.ToLower(s.Genre), needle) ||
			strings.Contains(strings.ToLower(s.Path), needle)
	default:
		return false
	}
}

func compare(field control.Field, a, b Song) int {
	switch field {
	case control.Path:
		return strings.Compare(a.Path, b.Path)
	case control.Title:
		return strings.Compare(a.Title, b.Title)
	case control.Artist:
		return strings.Compare(a.Artist, b.Artist)
	case control.Album:
		return strings.Compare(a.Album, b.Album)
	case control.Genre:
		return strings.Compare(a.Genre, b.Genre)
	case control.Track:
		return intSign(a.Track - b.Track)
	case control.Disc:
		return intSign(a.Disc - b.Disc)
	case control.Year:
		return intSign(a.Year - b.Year)
	case control.Length:
		return intSign(a.Length - b.Length)
	default:
		return 0
	}
}

func intSign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}
