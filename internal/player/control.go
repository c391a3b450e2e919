package player

import (
	"time"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/msgbus"
)

// Event reports what changed so the reactor can publish the matching
// SubMsg delta (spec.md §4.1's "publish" column); it is a thin summary,
// not the wire message itself, which internal/server constructs.
type Event struct {
	Kind      EventKind
	Playlist  bool
	Seek      bool
}

// EventKind names which aspect of player state changed. EventNone is the
// zero value so a bare Event{} (returned whenever a handler has nothing
// for the reactor to publish — LoadNewSongs, Save, Close, a rejected
// reorder, …) is never mistaken for a real Playback change.
type EventKind int

const (
	EventNone EventKind = iota
	EventPlayback
	EventPlaylistJump
	EventPlaylistSet
	EventVolume
	EventMute
	EventSeek
	EventStackChanged
	EventPolicyChanged
)

// HandleControl dispatches a Control message per the table in spec.md
// §4.1, returning follow-up Msgs (e.g. an onPlaylistEnded alias) and the
// Event to publish.
func (p *Player) HandleControl(c control.Control, decode DecodeFunc) ([]msgbus.Msg, Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch c.Kind {
	case control.PlayPause:
		return p.handlePlayPause(c.PlayPauseTo, decode), Event{Kind: EventPlayback}

	case control.Stop:
		p.cancelPendingLoad()
		if p.sink.Stop != nil {
			p.sink.Stop()
		}
		p.state = Stopped
		p.hasHardPause = false
		return nil, Event{Kind: EventPlayback}

	case control.NextSong:
		follow := p.advanceAndLoad(c.Count, decode)
		return follow, Event{Kind: EventPlaylistJump}

	case control.PrevSong:
		follow, collapsedToSeek := p.handlePrevSong(c, decode)
		if collapsedToSeek {
			return follow, Event{Kind: EventSeek, Seek: true}
		}
		return follow, Event{Kind: EventPlaylistJump}

	case control.Shuffle:
		p.stack.Current.Shuffle(p.opts.ShuffleCurrent)
		return nil, Event{Kind: EventPlaylistSet, Playlist: true}

	case control.SetVolume:
		p.volume = clamp01(c.Volume)
		if p.sink.SetVolume != nil {
			p.sink.SetVolume(p.effectiveVolume())
		}
		return nil, Event{Kind: EventVolume}

	case control.VolumeUp:
		p.volume = clamp01(p.volume + 0.05)
		if p.sink.SetVolume != nil {
			p.sink.SetVolume(p.effectiveVolume())
		}
		return nil, Event{Kind: EventVolume}

	case control.VolumeDown:
		p.volume = clamp01(p.volume - 0.05)
		if p.sink.SetVolume != nil {
			p.sink.SetVolume(p.effectiveVolume())
		}
		return nil, Event{Kind: EventVolume}

	case control.Mute:
		if c.MuteTo.Valid {
			p.mute = c.MuteTo.Value
		} else {
			p.mute = !p.mute
		}
		if p.sink.SetVolume != nil {
			p.sink.SetVolume(p.effectiveVolume())
		}
		return nil, Event{Kind: EventMute}

	case control.PlaylistJump:
		p.stack.Current.Current = control.SomeInt(c.PlaylistIdx)
		follow := p.load(decode, p.state != Stopped)
		return follow, Event{Kind: EventPlaylistJump}

	case control.SeekTo:
		if p.sink.Seek != nil {
			p.sink.Seek(c.SeekDuration)
		}
		return nil, Event{Kind: EventSeek, Seek: true}

	case control.FastForward:
		if p.sink.SeekBy != nil {
			p.sink.SeekBy(c.SeekDuration)
		}
		return nil, Event{Kind: EventSeek, Seek: true}

	case control.Rewind:
		if p.sink.SeekBy != nil {
			p.sink.SeekBy(-c.SeekDuration)
		}
		return nil, Event{Kind: EventSeek, Seek: true}

	case control.SortPlaylist:
		p.stack.Current.Sort(c.SortOrder, func(id library.SongID) library.Song { return p.lib.Get(id) })
		return nil, Event{Kind: EventPlaylistSet, Playlist: true}

	case control.PopPlaylist:
		if pos, ok := p.stack.Pop(c.Count); ok {
			follow := p.load(decode, p.state != Stopped)
			if pos.Valid && p.sink.Seek != nil {
				p.sink.Seek(time.Duration(pos.Value) * time.Second)
			}
			return follow, Event{Kind: EventStackChanged, Playlist: true}
		}
		return nil, Event{Kind: EventStackChanged}

	case control.Flatten:
		p.stack.Flatten(c.Count)
		return nil, Event{Kind: EventStackChanged, Playlist: true}

	case control.SetPlaylistAddPolicy:
		p.stack.Current.AddPolicy = c.AddPolicyVal
		return nil, Event{Kind: EventPolicyChanged}

	case control.LoadNewSongs:
		// Resolved by the reactor (it owns the library scan task); the
		// player has nothing to do synchronously here.
		return nil, Event{}

	case control.Save:
		// Marking dirty/scheduling the save task is the library's and
		// reactor's job; nothing player-local to do.
		return nil, Event{}

	case control.Close:
		// Handled entirely by the reactor (spec.md §4.1); not player state.
		return nil, Event{}
	}
	return nil, Event{}
}

func (p *Player) handlePlayPause(to control.TriState, decode DecodeFunc) []msgbus.Msg {
	targetPlaying := p.state != Playing
	if to.Valid {
		targetPlaying = to.Value
	}

	if p.state == Stopped {
		if !targetPlaying {
			return nil
		}
		return p.load(decode, true)
	}

	if targetPlaying {
		p.hasHardPause = false
		if p.sink.Play != nil {
			p.sink.Play()
		}
		p.state = Playing
	} else {
		if p.sink.Pause != nil {
			at := p.sink.Pause(p.opts.FadeOut)
			p.hardPauseAt = at
			p.hasHardPause = true
		}
		p.state = Paused
	}
	return nil
}

// advanceAndLoad advances current by n and reloads, applying the
// "previous within timeout" collapse only for PrevSong handling (see
// handlePrevSong); NextSong always advances forward by n.
func (p *Player) advanceAndLoad(n int, decode DecodeFunc) []msgbus.Msg {
	if !p.stack.Current.Advance(n) {
		p.playlistEnded = true
		p.state = Stopped
		if p.sink.Stop != nil {
			p.sink.Stop()
		}
		return p.onPlaylistEnded()
	}
	return p.load(decode, p.state != Stopped)
}

// handlePrevSong implements spec.md §4.4's double-press-to-restart rule:
// PrevSong(None) within previous_timeout of a prior PrevSong(None)
// collapses into SeekTo(0) instead of moving back again. The second
// return value reports that collapse, so HandleControl can publish
// EventSeek instead of EventPlaylistJump — the collapse behaves exactly
// as if Control(SeekTo(0)) had been dispatched (spec.md §8 scenario 1).
func (p *Player) handlePrevSong(c control.Control, decode DecodeFunc) ([]msgbus.Msg, bool) {
	if !c.PrevNone {
		return p.advanceAndLoad(-c.Count, decode), false
	}

	now := time.Now()
	if p.hasLastPrev && now.Sub(p.lastPrevNone) <= p.opts.PreviousTimeout {
		if p.sink.Seek != nil {
			p.sink.Seek(0)
		}
		p.lastPrevNone = now
		return nil, true
	}
	p.lastPrevNone = now
	p.hasLastPrev = true
	return p.advanceAndLoad(-1, decode), false
}

func (p *Player) effectiveVolume() float64 {
	if p.mute {
		return 0
	}
	return p.volume
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
