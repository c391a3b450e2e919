package player

import (
	"time"

	"github.com/famish99/uampd/internal/alcvec"
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/msgbus"
	"github.com/famish99/uampd/internal/playlist"
)

// HandleDataControl dispatches a DataControl per spec.md §4.1. Alias
// expansion is not handled here — the reactor resolves an Alias into its
// constituent steps (using the configured alias table) before any step
// reaches the player, since expansion is a control-plane concern, not a
// playback one.
func (p *Player) HandleDataControl(d control.DataControl, decode DecodeFunc) ([]msgbus.Msg, Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch d.Kind {
	case control.Set:
		ids := p.lib.Resolve(d.Query)
		p.stack.Current.Songs = alcvec.New(ids)
		p.stack.Current.Current = control.NoneInt
		follow := p.load(decode, p.state != Stopped)
		return follow, Event{Kind: EventPlaylistSet, Playlist: true}

	case control.Push:
		ids := p.lib.Resolve(d.Query)
		next := playlist.FromIDs(ids, p.stack.Current.AddPolicy)
		pos := p.currentPositionSeconds()
		p.stack.Push(next, pos)
		follow := p.load(decode, p.state != Stopped)
		return follow, Event{Kind: EventStackChanged, Playlist: true}

	case control.PushWithCurPlaylist:
		ids := p.lib.Resolve(d.Query)
		next := playlist.FromIDs(ids, p.stack.Current.AddPolicy)
		p.stack.PushWithCurrent(next)
		// Seamless: the same source keeps playing, no reload.
		return nil, Event{Kind: EventStackChanged, Playlist: true}

	case control.Queue:
		// Always appends, ignoring AddPolicy (spec.md §4.1 "Queue q |
		// Append"; ground truth playlist_mut().extend(...) in
		// data_control_msg.rs is policy-agnostic, unlike Add/Push which
		// honor AddPolicy).
		ids := p.lib.Resolve(d.Query)
		for _, id := range ids {
			p.stack.Current.Songs.Append(id)
		}
		return nil, Event{Kind: EventPlaylistSet, Playlist: true}

	case control.PlayNext:
		ids := p.lib.Resolve(d.Query)
		insertAt := p.stack.Current.Len()
		if p.stack.Current.Current.Valid {
			insertAt = p.stack.Current.Current.Value + 1
		}
		for i, id := range ids {
			p.stack.Current.InsertAt(insertAt+i, id)
		}
		return nil, Event{Kind: EventPlaylistSet, Playlist: true}

	case control.ReorderPlaylistStack:
		if err := p.stack.Reorder(d.Order); err != nil {
			p.log.WithError(err).Warn("rejected invalid playlist stack reorder")
			return nil, Event{}
		}
		return nil, Event{Kind: EventStackChanged, Playlist: true}

	case control.PlayTmp:
		song, err := p.metadataFor(d.Path)
		if err != nil {
			p.log.WithError(err).WithField("path", d.Path).Warn("failed to load metadata for temporary song")
			return nil, Event{}
		}
		id := p.lib.PlayTmp(song)
		next := playlist.FromIDs([]library.SongID{id}, control.PolicyEnd)
		p.stack.Push(next, control.NoneInt)
		follow := p.load(decode, true)
		return follow, Event{Kind: EventStackChanged, Playlist: true}

	case control.Restart:
		// Process replacement is an app/cmd-level concern (spec.md §6);
		// the player has no state to change here.
		return nil, Event{}

	case control.Alias:
		return nil, Event{}
	}
	return nil, Event{}
}

func (p *Player) currentPositionSeconds() control.OptInt {
	if p.sink.GetTime == nil {
		return control.NoneInt
	}
	return control.SomeInt(int(p.sink.GetTime() / time.Second))
}
