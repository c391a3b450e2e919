// Package sink implements the audio output facade described in spec.md
// §9: a capability interface rather than an inheritance hierarchy, with
// optional capabilities represented as nullable function slots that the
// wrapper guards before delegating.
package sink

import "time"

// Source is whatever a decoder hands the sink: a stream of interleaved
// samples at a known sample rate and channel count. The concrete decoder
// ABI is out of scope (spec.md §1 Non-goals); Source is the minimal
// surface the wrapper needs to drive playback.
type Source interface {
	// Stream fills buf with interleaved float64 samples in [-1, 1],
	// returning the number of samples written and whether the stream is
	// exhausted.
	Stream(buf [][2]float64) (n int, ok bool)
	// Len reports the total sample count, if known.
	Len() int
	// Position reports the current sample offset.
	Position() int
	// Close releases any resources the source holds.
	Close() error
}

// Config describes the sample format a Sink expects from a Source.
type Config struct {
	SampleRate int
	Channels   int
}

// Sink is the capability interface every audio backend implements.
// Init/Load and the basic transport (Play/Pause/Stop) are required;
// Seek, SeekBy, SetVolume, GetTime and PreferredConfig are optional
// capabilities represented as nullable function slots (spec.md §9) —
// callers must check the slot for nil (or use CanSeek, CanSeekBy,
// CanSetVolume, CanPrefetch) before invoking them.
type Sink struct {
	// Init prepares the backend for output. Called once before first use.
	Init func() error

	// Load hands the backend a new source to play, replacing whatever was
	// playing before. fadeIn is applied if non-zero.
	Load func(src Source, cfg Config, fadeIn time.Duration) error

	// Play resumes output (no-op if already playing).
	Play func()

	// Pause suspends output after fading out over fadeOut, returning the
	// wall-clock instant at which the fade will have completed — the
	// player stores this as hard_pause_at (spec.md §4.4 "Hard pause").
	Pause func(fadeOut time.Duration) time.Time

	// Stop halts output and releases the current source.
	Stop func()

	// Prefetch asks the backend to begin decoding src in the background so
	// the transition from the current source is gapless. Returns false if
	// prefetch is not supported or not currently possible.
	Prefetch func(src Source, cfg Config) bool

	// Unprefetch discards any in-flight prefetch, used during library
	// reconciliation (spec.md §4.4) when the prefetched song is removed.
	Unprefetch func()

	// Seek, SeekBy, SetVolume, GetTime, PreferredConfig: optional
	// capabilities. nil means unsupported.
	Seek            func(pos time.Duration) error
	SeekBy          func(delta time.Duration) error
	SetVolume       func(v float64)
	GetTime         func() time.Duration
	PreferredConfig func() Config
}

// CanSeek reports whether the backend supports absolute seeking.
func (s *Sink) CanSeek() bool { return s.Seek != nil }

// CanSeekBy reports whether the backend supports relative seeking.
func (s *Sink) CanSeekBy() bool { return s.SeekBy != nil }

// CanSetVolume reports whether the backend supports software volume.
func (s *Sink) CanSetVolume() bool { return s.SetVolume != nil }

// CanPrefetch reports whether the backend supports gapless prefetch.
func (s *Sink) CanPrefetch() bool { return s.Prefetch != nil && s.Unprefetch != nil }
