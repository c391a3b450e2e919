package app

import (
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/player"
	"github.com/famish99/uampd/internal/proto"
)

// publish translates a player.Event into the matching SubMsg and
// broadcasts it, per spec.md §4.1's "publish" column. EventNone (every
// handler that has nothing to report — LoadNewSongs, Save, Close, a
// rejected reorder, a failed PlayTmp) is never broadcast.
func (a *App) publish(ev player.Event) {
	kind, ok := subKindFor(ev.Kind)
	if !ok {
		return
	}
	a.broadcaster.Publish(proto.SubMsg{Kind: kind, Info: a.buildInfo()})
}

func subKindFor(kind player.EventKind) (proto.SubKind, bool) {
	switch kind {
	case player.EventPlayback:
		return proto.SubPlayback, true
	case player.EventPlaylistJump:
		return proto.SubPlaylistJump, true
	case player.EventPlaylistSet:
		return proto.SubPlaylistSet, true
	case player.EventVolume:
		return proto.SubVolume, true
	case player.EventMute:
		return proto.SubMute, true
	case player.EventSeek:
		return proto.SubSeek, true
	case player.EventStackChanged:
		return proto.SubStackChanged, true
	case player.EventPolicyChanged:
		return proto.SubPolicyChanged, true
	default:
		return 0, false
	}
}

// quittingSubMsg builds the shutdown notice broadcast once on the first
// Control(Close) (spec.md §4.7).
func quittingSubMsg() proto.SubMsg {
	return proto.SubMsg{Kind: proto.SubQuitting}
}

// buildInfo snapshots player state into the wire Info shape used by both
// the protocol's Info reply and every SubMsg delta.
func (a *App) buildInfo() proto.Info {
	snap := a.player.Snapshot()
	return proto.Info{
		State:         stateString(snap.State),
		Volume:        snap.Volume,
		Mute:          snap.Mute,
		HasCurrent:    snap.HasCurrent,
		CurrentSongID: uint32(snap.CurrentSongID),
		PlaylistLen:   snap.PlaylistLen,
		StackDepth:    snap.StackDepth,
		AddPolicy:     addPolicyString(snap.AddPolicy),
	}
}

func stateString(s player.State) string {
	switch s {
	case player.Playing:
		return "playing"
	case player.Paused:
		return "paused"
	default:
		return "stopped"
	}
}

func addPolicyString(p control.AddPolicy) string {
	switch p {
	case control.PolicyNext:
		return "next"
	case control.PolicyMixIn:
		return "mix_in"
	case control.PolicyNone:
		return "none"
	default:
		return "end"
	}
}
