package app

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/famish99/uampd/internal/config"
	"github.com/famish99/uampd/internal/control"
	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/msgbus"
	"github.com/famish99/uampd/internal/player"
	"github.com/famish99/uampd/internal/sink"
)

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func testDecode(path string) (sink.Source, sink.Config, error) {
	return nil, sink.Config{}, nil
}

// newPrefetchCapableSink wires the required transport capabilities plus
// Prefetch/Unprefetch, enough to exercise Player.Prefetch/AdvanceGapless
// (and the ordinary load path Control(PlaylistJump) drives) from the
// reactor side.
func newPrefetchCapableSink() *sink.Sink {
	return &sink.Sink{
		Load:       func(src sink.Source, cfg sink.Config, fadeIn time.Duration) error { return nil },
		Play:       func() {},
		Pause:      func(fadeOut time.Duration) time.Time { return time.Time{} },
		Stop:       func() {},
		Prefetch:   func(src sink.Source, cfg sink.Config) bool { return true },
		Unprefetch: func() {},
	}
}

func newTestApp(snk *sink.Sink) *App {
	cfg := config.Default()
	lib := library.New()
	bus := msgbus.New()
	p := player.New(discardLogger(), bus, lib, snk, PlayerOptions(cfg), library.ExtractMetadata)

	return New(Deps{
		Log:     discardLogger(),
		Bus:     bus,
		Config:  cfg,
		Library: lib,
		Player:  p,
		Decode:  testDecode,
	})
}

// TestTaskResultQueuesNewlyScannedSongsWhenPolicySet covers spec.md
// §4.5's auto-queue feature end to end: a completed LibraryLoad task
// whose LoadResult carries a valid AddPolicy must both merge the scan
// into the library and queue the newly found songs into the live
// playlist.
func TestTaskResultQueuesNewlyScannedSongsWhenPolicySet(t *testing.T) {
	a := newTestApp(&sink.Sink{})

	res := library.LoadResult{
		Songs: []library.Song{
			{Path: "/music/a.flac"},
			{Path: "/music/b.flac"},
		},
		FirstNew:  0,
		SparseNew: nil,
		AddPolicy: control.SomeAddPolicy(control.PolicyEnd),
	}

	follow := a.handleTaskResult(msgbus.TaskResult{Kind: msgbus.TaskLibraryLoad, LoadResult: res})
	if len(follow) != 0 {
		t.Fatalf("expected no follow-up msgs, got %+v", follow)
	}

	if a.lib.Len() != 2 {
		t.Fatalf("expected the scan result merged into the library, got %d songs", a.lib.Len())
	}

	all := a.player.Playlist().Songs.All()
	if len(all) != 2 || all[0] != 0 || all[1] != 1 {
		t.Fatalf("expected both newly scanned songs queued into the foreground playlist, got %v", all)
	}
}

// TestTaskResultLeavesPlaylistAloneWithoutPolicy guards the opposite
// case: when LoadOptions never asked for an add-policy, a scan must not
// touch the live playlist at all.
func TestTaskResultLeavesPlaylistAloneWithoutPolicy(t *testing.T) {
	a := newTestApp(&sink.Sink{})

	res := library.LoadResult{
		Songs:    []library.Song{{Path: "/music/a.flac"}},
		FirstNew: 0,
	}

	a.handleTaskResult(msgbus.TaskResult{Kind: msgbus.TaskLibraryLoad, LoadResult: res})

	if a.player.Playlist().Len() != 0 {
		t.Fatalf("expected the foreground playlist untouched without AddPolicy, got %d songs", a.player.Playlist().Len())
	}
}

// TestTaskResultSkipsOnScanError guards against queuing or merging
// anything when the scan itself failed.
func TestTaskResultSkipsOnScanError(t *testing.T) {
	a := newTestApp(&sink.Sink{})

	a.handleTaskResult(msgbus.TaskResult{
		Kind: msgbus.TaskLibraryLoad,
		Err:  errScan{},
	})

	if a.lib.Len() != 0 {
		t.Fatalf("expected no library merge on scan error")
	}
}

type errScan struct{}

func (errScan) Error() string { return "scan failed" }

// TestHandlePlayerEventGaplessAdvanceSkipsNextSongDispatch covers the
// prefetch/gapless-advance path from the reactor side: once the player
// has prefetched the next song and the sink reports the source ended,
// the reactor must not dispatch a fresh Control(NextSong) — the player
// already advanced current in place.
func TestHandlePlayerEventGaplessAdvanceSkipsNextSongDispatch(t *testing.T) {
	a := newTestApp(newPrefetchCapableSink())

	a.lib.ApplyScanResult(library.LoadResult{
		Songs:    []library.Song{{Path: "/music/a.flac"}, {Path: "/music/b.flac"}},
		FirstNew: 0,
	})
	a.player.HandleDataControl(control.SetMsg(control.Query{}), testDecode)
	a.player.HandleControl(control.Jump(0), testDecode)

	if _, ok := a.player.Prefetch(testDecode); !ok {
		t.Fatalf("expected prefetch of song 1 to succeed")
	}

	follow := a.handlePlayerEvent(msgbus.PlayerEvent{Kind: msgbus.PlayerEventSourceEnded})
	if len(follow) != 0 {
		t.Fatalf("expected no follow-up Control(NextSong) when the advance was gapless, got %+v", follow)
	}
	if !a.player.Playlist().Current.Valid || a.player.Playlist().Current.Value != 1 {
		t.Fatalf("expected current advanced to song 1 in place")
	}
}

// TestHandlePlayerEventFallsBackToNextSongWithoutPrefetch guards the
// normal (non-gapless) advance path: with nothing prefetched,
// PlayerEventSourceEnded must fall back to a follow-up Control(NextSong).
func TestHandlePlayerEventFallsBackToNextSongWithoutPrefetch(t *testing.T) {
	a := newTestApp(&sink.Sink{})

	follow := a.handlePlayerEvent(msgbus.PlayerEvent{Kind: msgbus.PlayerEventSourceEnded})
	if len(follow) != 1 || follow[0].Kind != msgbus.ControlMsg || follow[0].Control.Kind != control.NextSong {
		t.Fatalf("expected a follow-up Control(NextSong), got %+v", follow)
	}
}
