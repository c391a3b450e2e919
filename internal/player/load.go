package player

import (
	"context"
	"time"

	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/msgbus"
	"github.com/famish99/uampd/internal/sink"
)

// DecodeFunc turns a song's path into a playable Source. The concrete
// decoder is out of scope (spec.md §1 Non-goals); the reactor supplies
// whatever decoder plugin it has wired at startup.
type DecodeFunc func(path string) (sink.Source, sink.Config, error)

// load hands decode's result to p.sink for id's song and either starts or
// pauses output, per spec.md §4.4 "Load procedure". On decode failure it
// logs, advances current by one, and retries; if the playlist runs out
// during retry it sets playlistEnded and stops. Must be called with p.mu
// held.
func (p *Player) load(decode DecodeFunc, wantPlaying bool) []msgbus.Msg {
	p.cancelPendingLoad()
	ctx, cancel := context.WithCancel(context.Background())
	p.loadCancel = cancel

	for {
		id, ok := p.stack.Current.CurrentID()
		if !ok {
			p.playlistEnded = true
			p.state = Stopped
			return p.onPlaylistEnded()
		}

		song := p.lib.Get(id)
		if song.Deleted {
			p.log.WithField("song_id", id).Warn("current song is tombstoned, skipping")
			if !p.stack.Current.Advance(1) {
				p.playlistEnded = true
				p.state = Stopped
				return p.onPlaylistEnded()
			}
			continue
		}

		src, cfg, err := decode(song.Path)
		if err != nil {
			p.log.WithError(err).WithField("path", song.Path).Warn("failed to load song, advancing")
			if !p.stack.Current.Advance(1) {
				p.playlistEnded = true
				p.state = Stopped
				return p.onPlaylistEnded()
			}
			continue
		}

		fade := time.Duration(0)
		if wantPlaying {
			fade = p.opts.FadePlayPause
		}
		if loadErr := p.sink.Load(src, cfg, fade); loadErr != nil {
			p.log.WithError(loadErr).Warn("sink rejected source, advancing")
			if !p.stack.Current.Advance(1) {
				p.playlistEnded = true
				p.state = Stopped
				return p.onPlaylistEnded()
			}
			continue
		}

		if wantPlaying {
			p.sink.Play()
			p.state = Playing
		} else {
			p.sink.Pause(0)
			p.state = Paused
		}
		p.playlistEnded = false
		go p.pollForPrefetch(ctx)
		return nil
	}
}

// onPlaylistEnded queries the playlist's on_end alias (or the configured
// default) and returns it as a follow-up DataControl(Alias) Msg (spec.md
// §4.4 "Playback-ended action").
func (p *Player) onPlaylistEnded() []msgbus.Msg {
	alias := p.stack.Current.OnEnd
	if alias == "" {
		alias = p.opts.DefaultOnEnd
	}
	if alias == "" {
		return nil
	}
	return []msgbus.Msg{msgbus.FromData(control.AliasMsg(alias))}
}

// pollForPrefetch watches the sink's reported playback time against the
// current source's length and posts PlayerEventPrefetchTime once within
// range of the end, mirroring the teacher's waitForTrackCompletion
// ticker-polling shape (playback_internal.go) repurposed for the
// prefetch trigger instead of end-of-track detection.
func (p *Player) pollForPrefetch(ctx context.Context) {
	if p.sink.GetTime == nil {
		return
	}
	const prefetchWindow = 2 * time.Second
	t := time.NewTicker(250 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.mu.Lock()
			id, ok := p.stack.Current.CurrentID()
			p.mu.Unlock()
			if !ok {
				return
			}
			song := p.lib.Get(id)
			elapsed := p.sink.GetTime()
			remaining := time.Duration(song.Length)*time.Second - elapsed
			if remaining <= prefetchWindow {
				p.postEvent(msgbus.PlayerEvent{Kind: msgbus.PlayerEventPrefetchTime})
				return
			}
		}
	}
}

// Prefetch asks the sink to pre-load the next song in the foreground
// playlist, if any and if the backend supports it (spec.md §4.4
// "Prefetch"). Returns the prefetched SongID and whether prefetch
// actually started.
func (p *Player) Prefetch(decode DecodeFunc) (library.SongID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.sink.CanPrefetch() {
		return 0, false
	}
	cur := p.stack.Current
	if !cur.Current.Valid || cur.Current.Value+1 >= cur.Len() {
		return 0, false
	}
	nextID := cur.Songs.All()[cur.Current.Value+1]
	song := p.lib.Get(nextID)
	if song.Deleted {
		return 0, false
	}
	src, cfg, err := decode(song.Path)
	if err != nil {
		return 0, false
	}
	if !p.sink.Prefetch(src, cfg) {
		return 0, false
	}
	p.prefetchedID = nextID
	p.hasPrefetch = true
	return nextID, true
}

// AdvanceGapless advances current without reloading when the prefetched
// source finishes naturally and is still the right next song (spec.md
// §4.4 "the transition is gapless: the reactor advances current without
// reloading"). Returns false if a normal load is needed instead (the
// playlist changed underneath, or nothing was prefetched).
func (p *Player) AdvanceGapless() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.hasPrefetch {
		return false
	}
	cur := p.stack.Current
	if !cur.Current.Valid || cur.Current.Value+1 >= cur.Len() {
		p.hasPrefetch = false
		return false
	}
	nextID := cur.Songs.All()[cur.Current.Value+1]
	if nextID != p.prefetchedID {
		p.hasPrefetch = false
		return false
	}
	cur.Current = control.SomeInt(cur.Current.Value + 1)
	p.hasPrefetch = false
	return true
}

// Unprefetch discards any in-flight prefetch (spec.md §4.4 "Library
// reconciliation... the sink unprefetches").
func (p *Player) Unprefetch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasPrefetch && p.sink.Unprefetch != nil {
		p.sink.Unprefetch()
	}
	p.hasPrefetch = false
}
