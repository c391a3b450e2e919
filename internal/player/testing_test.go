package player

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/famish99/uampd/internal/library"
	"github.com/famish99/uampd/internal/msgbus"
	"github.com/famish99/uampd/internal/sink"
)

// discardLogger mirrors internal/server/server_test.go's pattern: a real
// logrus.Logger with its output routed nowhere, so test runs stay quiet.
func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// fakeSource is the minimal sink.Source a test decode function hands back;
// its content is never actually streamed, only its presence matters.
type fakeSource struct{ path string }

func (f *fakeSource) Stream(buf [][2]float64) (int, bool) { return 0, false }
func (f *fakeSource) Len() int                             { return 0 }
func (f *fakeSource) Position() int                        { return 0 }
func (f *fakeSource) Close() error                         { return nil }

// fakeSink records every call a test cares about, leaving every optional
// capability wired so CanSeek/CanPrefetch/etc. all report true.
type fakeSink struct {
	played      int
	paused      int
	stopped     int
	seekedTo    []time.Duration
	loadedPaths []string
	prefetched  []string
	unprefetch  int
}

func newFakeSink(s *fakeSink) *sink.Sink {
	return &sink.Sink{
		Load: func(src sink.Source, cfg sink.Config, fadeIn time.Duration) error {
			s.loadedPaths = append(s.loadedPaths, src.(*fakeSource).path)
			return nil
		},
		Play:  func() { s.played++ },
		Pause: func(fadeOut time.Duration) time.Time { s.paused++; return time.Now() },
		Stop:  func() { s.stopped++ },
		Prefetch: func(src sink.Source, cfg sink.Config) bool {
			s.prefetched = append(s.prefetched, src.(*fakeSource).path)
			return true
		},
		Unprefetch: func() { s.unprefetch++ },
		Seek: func(pos time.Duration) error {
			s.seekedTo = append(s.seekedTo, pos)
			return nil
		},
		SeekBy:    func(delta time.Duration) error { return nil },
		SetVolume: func(v float64) {},
		GetTime:   func() time.Duration { return 0 },
	}
}

func testDecode(path string) (sink.Source, sink.Config, error) {
	return &fakeSource{path: path}, sink.Config{SampleRate: 44100, Channels: 2}, nil
}

// newTestPlayer builds a Player over a 3-song library with every song
// loaded into the foreground playlist in library order, Current unset.
func newTestPlayer() (*Player, *fakeSink, *library.Library) {
	lib := library.New()
	lib.ApplyScanResult(library.LoadResult{
		Songs: []library.Song{
			{Path: "/music/a.flac", Title: "a", Length: 180},
			{Path: "/music/b.flac", Title: "b", Length: 180},
			{Path: "/music/c.flac", Title: "c", Length: 180},
		},
		FirstNew: 0,
	})

	fs := &fakeSink{}
	snk := newFakeSink(fs)
	bus := msgbus.New()
	opts := Options{PreviousTimeout: 5 * time.Second}

	p := New(discardLogger(), bus, lib, snk, opts, library.ExtractMetadata)
	p.stack.Current.Songs.Append(0)
	p.stack.Current.Songs.Append(1)
	p.stack.Current.Songs.Append(2)
	return p, fs, lib
}
