package playlist

import (
	"errors"

	"github.com/famish99/uampd/internal/alcvec"
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
)

var errBadReorder = errors.New("playlist: reorder argument is out of range")

// Stack is the player's LIFO of previously-active playlists plus the
// foreground playlist, implementing push/push-with-current/pop/flatten
// exactly per spec.md §4.4.
type Stack struct {
	Current *Playlist
	parents []*Playlist
}

// NewStack wraps an initial foreground playlist.
func NewStack(current *Playlist) *Stack {
	return &Stack{Current: current}
}

// Depth returns the number of parent playlists beneath Current.
func (s *Stack) Depth() int { return len(s.parents) }

// Parents returns the stack's parent playlists, oldest-first. The
// returned slice aliases internal state; callers must not retain it
// across a mutating call.
func (s *Stack) Parents() []*Playlist { return s.parents }

// Push saves the outgoing playlist's play-position, pushes it onto the
// stack, and replaces Current with next (spec.md §4.4 "Push playlist").
func (s *Stack) Push(next *Playlist, pos control.OptInt) {
	s.Current.SavedPos = pos
	s.parents = append(s.parents, s.Current)
	s.Current = next
}

// PushWithCurrent splices the outgoing playlist's current song to index 0
// of next, pushes the outgoing playlist, and makes next current — no
// reload, since the same source keeps playing under the new playlist
// (spec.md §4.4 "Push with current", scenario 2).
func (s *Stack) PushWithCurrent(next *Playlist) {
	curID, ok := s.Current.CurrentID()

	s.parents = append(s.parents, s.Current)
	s.Current = next

	if !ok {
		return
	}
	merged := append([]library.SongID{curID}, next.Songs.All()...)
	next.Songs = alcvec.New(merged)
	next.Current = control.SomeInt(0)
}

// Pop pops n parent playlists (n==0 means "all but last") and makes the
// last-popped one Current, restoring its saved play-position (spec.md
// §4.4 "Pop playlist n"). Popping an empty stack is a no-op.
func (s *Stack) Pop(n int) (restored control.OptInt, ok bool) {
	if len(s.parents) == 0 {
		return control.NoneInt, false
	}
	count := n
	if count == 0 || count > len(s.parents) {
		count = len(s.parents)
	}
	var popped *Playlist
	for i := 0; i < count; i++ {
		popped = s.parents[len(s.parents)-1]
		s.parents = s.parents[:len(s.parents)-1]
	}
	pos := popped.SavedPos
	s.Current = popped
	return pos, true
}

// Flatten repeatedly pops a parent and concatenates Current's songs onto
// it, n times (n==0 means "all"); the result becomes Current (spec.md
// §4.4 "Flatten n").
func (s *Stack) Flatten(n int) {
	count := n
	if count == 0 || count > len(s.parents) {
		count = len(s.parents)
	}
	for i := 0; i < count; i++ {
		if len(s.parents) == 0 {
			return
		}
		parent := s.parents[len(s.parents)-1]
		s.parents = s.parents[:len(s.parents)-1]

		offset := parent.Songs.Len()
		merged := append(append([]library.SongID(nil), parent.Songs.All()...), s.Current.Songs.All()...)
		var newCurrent control.OptInt
		if s.Current.Current.Valid {
			newCurrent = control.SomeInt(offset + s.Current.Current.Value)
		}
		parent.Songs = alcvec.New(merged)
		parent.Current = newCurrent
		parent.AddPolicy = s.Current.AddPolicy
		parent.OnEnd = s.Current.OnEnd
		s.Current = parent
	}
}

// Reorder rearranges the stack given a (possibly partial) list of indices
// into {0,...,len(parents)}, using spec.md §4.4's own addressing convention:
// index 0 is Current, index 1 is the top of the stack (the most recently
// pushed parent), ... index len(parents) is the bottom (the first pushed
// parent). order need not mention every index — ported directly from
// original_source/src/core/player/player_struct.rs's reorder_playlist:
// an empty order is a no-op; order longer than len(parents)+1 or containing an
// out-of-range index is rejected; duplicates are not checked (matching
// the original). Playlists not mentioned in order keep their relative
// position at the bottom of the stack; the ones mentioned are restacked
// on top in order, and the playlist addressed by order[0] ends up current
// (spec.md §4.4 "reconstruct the stack so the permutation's first element
// becomes current").
func (s *Stack) Reorder(order []int) error {
	if len(order) == 0 {
		return nil
	}

	stackLen := len(s.parents) + 1
	if len(order) > stackLen {
		return errBadReorder
	}
	for _, v := range order {
		if v < 0 || v >= stackLen {
			return errBadReorder
		}
	}

	// playlists is addressed oldest-parent-first with Current last, the
	// same layout player_struct.rs builds by pushing Current onto the end
	// of the (oldest-first) playlist_stack before reordering.
	playlists := make([]*Playlist, 0, stackLen)
	playlists = append(playlists, s.parents...)
	playlists = append(playlists, s.Current)

	mentioned := func(addr int) bool {
		for _, v := range order {
			if v == addr {
				return true
			}
		}
		return false
	}

	// Untouched playlists keep their relative order at the bottom...
	var plan []int
	for i := 0; i < stackLen; i++ {
		if !mentioned(stackLen - i - 1) {
			plan = append(plan, i)
		}
	}
	// ...then the mentioned ones are appended, order reversed so order[0]
	// (which addresses what should become current) lands last, since the
	// last entry of plan is what "pops" into the new Current below.
	for i := len(order) - 1; i >= 0; i-- {
		plan = append(plan, stackLen-order[i]-1)
	}

	newStack := make([]*Playlist, len(plan))
	for i, addr := range plan {
		newStack[i] = playlists[addr]
	}

	s.Current = newStack[len(newStack)-1]
	s.parents = append([]*Playlist(nil), newStack[:len(newStack)-1]...)
	return nil
}
