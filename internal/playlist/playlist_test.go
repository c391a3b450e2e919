package playlist

import (
	"testing"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
)

func ids(xs ...library.SongID) []library.SongID { return xs }

func TestAdvancePastEndSignalsEnded(t *testing.T) {
	p := FromIDs(ids(0, 1, 2), control.PolicyEnd)
	p.Current = control.SomeInt(2)
	if p.Advance(1) {
		t.Fatalf("expected Advance past end to report ended")
	}
}

func TestShuffleWithShuffleCurrentFalsePreservesPlayingSong(t *testing.T) {
	p := FromIDs(ids(0, 1, 2, 3), control.PolicyEnd) // A,B,C,D
	p.Current = control.SomeInt(2)                   // C playing

	p.Shuffle(false)

	if !p.Current.Valid || p.Current.Value != 0 {
		t.Fatalf("expected current to relocate to index 0, got %+v", p.Current)
	}
	cur, ok := p.CurrentID()
	if !ok || cur != 2 {
		t.Fatalf("expected song C (id 2) to be current, got %v ok=%v", cur, ok)
	}

	seen := map[library.SongID]bool{}
	for _, id := range p.Songs.All() {
		seen[id] = true
	}
	for _, want := range ids(0, 1, 2, 3) {
		if !seen[want] {
			t.Fatalf("shuffle lost song %v", want)
		}
	}
}

func TestAddPolicyNextInsertsAfterCurrent(t *testing.T) {
	p := FromIDs(ids(0, 1, 2), control.PolicyNext)
	p.Current = control.SomeInt(0)
	p.Add(99)

	all := p.Songs.All()
	if len(all) != 4 || all[1] != 99 {
		t.Fatalf("expected 99 inserted at index 1, got %v", all)
	}
}

func TestDropTombstonedRelocatesCurrent(t *testing.T) {
	p := FromIDs(ids(0, 1, 2, 3), control.PolicyEnd)
	p.Current = control.SomeInt(2) // id 2

	live := map[library.SongID]bool{0: true, 2: true, 3: true}
	p.DropTombstoned(func(id library.SongID) bool { return live[id] })

	all := p.Songs.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 surviving songs, got %v", all)
	}
	cur, ok := p.CurrentID()
	if !ok || cur != 2 {
		t.Fatalf("expected current to still point at song 2, got %v ok=%v", cur, ok)
	}
}

func TestSortByTitleWithTieBreakers(t *testing.T) {
	songs := map[library.SongID]library.Song{
		0: {Title: "Beta", Album: "Z", Track: 1},
		1: {Title: "Alpha", Album: "A", Track: 2},
		2: {Title: "Alpha", Album: "A", Track: 1},
	}
	p := FromIDs(ids(0, 1, 2), control.PolicyEnd)
	p.Sort(control.SongOrder{Field: control.Title}, func(id library.SongID) library.Song { return songs[id] })

	all := p.Songs.All()
	// Both 1 and 2 have title "Alpha"; tie-breaker on Track orders 2 before 1.
	if all[0] != 2 || all[1] != 1 || all[2] != 0 {
		t.Fatalf("unexpected sort order: %v", all)
	}
}
