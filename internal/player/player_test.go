package player

import (
	"testing"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/playlist"
)

// TestAddSongsAppliesPolicyAcrossWholeStackAndRestoresIt covers spec.md
// §4.5's auto-queue feature: a scan's newly found songs are spliced into
// every live playlist (foreground plus every parent) under the given
// policy, which overrides each playlist's own stored AddPolicy only for
// this call.
func TestAddSongsAppliesPolicyAcrossWholeStackAndRestoresIt(t *testing.T) {
	p, _, _ := newTestPlayer()
	top := p.stack.Current // the 3-song foreground playlist from newTestPlayer
	top.AddPolicy = control.PolicyMixIn

	next := playlist.FromIDs([]library.SongID{0, 1}, control.PolicyNone)
	p.stack.Push(next, control.NoneInt)
	// Push made next the foreground and demoted top to a parent.

	p.AddSongs([]library.SongID{2}, control.PolicyEnd)

	nextAll := p.stack.Current.Songs.All()
	if len(nextAll) != 3 || nextAll[2] != 2 {
		t.Fatalf("expected new song appended to the foreground playlist, got %v", nextAll)
	}
	if p.stack.Current.AddPolicy != control.PolicyNone {
		t.Fatalf("expected foreground AddPolicy restored to PolicyNone, got %v", p.stack.Current.AddPolicy)
	}

	topAll := top.Songs.All()
	if len(topAll) != 4 || topAll[3] != 2 {
		t.Fatalf("expected new song queued into the parent playlist too, got %v", topAll)
	}
	if top.AddPolicy != control.PolicyMixIn {
		t.Fatalf("expected parent AddPolicy restored to PolicyMixIn, got %v", top.AddPolicy)
	}
}
