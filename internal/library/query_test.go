package library

import (
	"testing"

	"github.com/famish99/uampd/internal/control"
)

func TestResolveFiltersAndOrders(t *testing.T) {
	lib := New()
	lib.ApplyScanResult(LoadResult{Songs: []Song{
		{Title: "Zeta", Artist: "Boards of Canada", Track: 2},
		{Title: "Alpha", Artist: "Boards of Canada", Track: 1},
		{Title: "Beta", Artist: "Someone Else", Track: 1},
	}, FirstNew: 3})

	q := control.Query{
		Filter: []control.FilterTerm{{Field: "artist", Substring: "boards"}},
		Order:  control.SongOrder{Field: control.Title},
	}
	got := lib.Resolve(q)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if lib.Get(got[0]).Title != "Alpha" || lib.Get(got[1]).Title != "Zeta" {
		t.Fatalf("expected alphabetical order Alpha,Zeta, got %v", got)
	}
}

func TestResolveExcludesTombstoned(t *testing.T) {
	lib := New()
	lib.ApplyScanResult(LoadResult{Songs: []Song{
		{Title: "One"}, {Title: "Two"},
	}, FirstNew: 2})
	lib.Delete(0)

	got := lib.Resolve(control.Query{})
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only song 1 to remain, got %v", got)
	}
}
