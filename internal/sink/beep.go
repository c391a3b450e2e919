package sink

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/famish99/uampd/internal/errs"
)

// sourceStreamer adapts a Source to beep.Streamer, the shape
// speaker.Play expects (grounded on FreddyMaster-muxic/internal/util/audio.go's
// mp3.Decode -> beep.StreamSeekCloser usage, generalized to any Source).
type sourceStreamer struct {
	src Source
}

func (s *sourceStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	return s.src.Stream(samples)
}

func (s *sourceStreamer) Err() error { return nil }

// BeepSink is the reference Sink implementation, wrapping
// github.com/gopxl/beep/speaker for output and
// github.com/gopxl/beep/effects.Volume for software volume and fades.
// The concrete decoder that produces a Source is out of scope (spec.md
// §1); BeepSink only demonstrates driving the capability interface.
type BeepSink struct {
	mu sync.Mutex

	cfg    Config
	ctrl   *beep.Ctrl
	volume *effects.Volume
	cur    Source

	prefetched Source
	prefetchCfg Config
}

// NewBeepSink builds a Sink backed by BeepSink, with every optional
// capability wired (Seek, SetVolume, GetTime, Prefetch).
func NewBeepSink() *Sink {
	b := &BeepSink{}
	return &Sink{
		Init:            b.init,
		Load:            b.load,
		Play:            b.play,
		Pause:           b.pause,
		Stop:            b.stop,
		Prefetch:        b.prefetch,
		Unprefetch:      b.unprefetch,
		Seek:            b.seek,
		SeekBy:          b.seekBy,
		SetVolume:       b.setVolume,
		GetTime:         b.getTime,
		PreferredConfig: b.preferredConfig,
	}
}

func (b *BeepSink) init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	sr := beep.SampleRate(44100)
	if err := speaker.Init(sr, sr.N(time.Second/20)); err != nil {
		return errs.Wrap(errs.Sink, "failed to initialize audio output", err)
	}
	return nil
}

func (b *BeepSink) load(src Source, cfg Config, fadeIn time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cur = src
	b.cfg = cfg
	streamer := &sourceStreamer{src: src}

	vol := &effects.Volume{Streamer: streamer, Base: 2, Volume: 0, Silent: false}
	if fadeIn > 0 {
		vol.Silent = true
	}
	ctrl := &beep.Ctrl{Streamer: vol, Paused: false}

	b.ctrl = ctrl
	b.volume = vol

	speaker.Lock()
	defer speaker.Unlock()
	speaker.Play(ctrl)

	if fadeIn > 0 {
		go b.rampVolume(vol, true, fadeIn)
	}
	return nil
}

func (b *BeepSink) play() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
}

func (b *BeepSink) pause(fadeOut time.Duration) time.Time {
	b.mu.Lock()
	vol := b.volume
	ctrl := b.ctrl
	b.mu.Unlock()

	if vol == nil || ctrl == nil {
		return time.Now()
	}
	if fadeOut <= 0 {
		speaker.Lock()
		ctrl.Paused = true
		speaker.Unlock()
		return time.Now()
	}

	completeAt := time.Now().Add(fadeOut)
	go func() {
		b.rampVolume(vol, false, fadeOut)
		speaker.Lock()
		ctrl.Paused = true
		speaker.Unlock()
	}()
	return completeAt
}

func (b *BeepSink) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl != nil {
		speaker.Lock()
		b.ctrl.Paused = true
		speaker.Unlock()
	}
	if b.cur != nil {
		b.cur.Close()
	}
	b.cur = nil
	b.ctrl = nil
	b.volume = nil
}

// prefetch decodes nothing itself — it records the pending source so the
// player can hand it to Load without a gap once the current source ends
// (spec.md §4.4 "Prefetch").
func (b *BeepSink) prefetch(src Source, cfg Config) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prefetched = src
	b.prefetchCfg = cfg
	return true
}

func (b *BeepSink) unprefetch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.prefetched != nil {
		b.prefetched.Close()
	}
	b.prefetched = nil
}

func (b *BeepSink) seek(pos time.Duration) error {
	seeker, ok := b.cur.(interface{ SeekTo(time.Duration) error })
	if !ok {
		return errs.New(errs.Sink, "current source does not support seeking")
	}
	speaker.Lock()
	defer speaker.Unlock()
	return seeker.SeekTo(pos)
}

func (b *BeepSink) seekBy(delta time.Duration) error {
	cur := b.getTime()
	return b.seek(cur + delta)
}

func (b *BeepSink) setVolume(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.volume == nil {
		return
	}
	speaker.Lock()
	b.volume.Volume = volumeToExponent(v)
	b.volume.Silent = v <= 0
	speaker.Unlock()
}

func (b *BeepSink) getTime() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cur == nil || b.cfg.SampleRate == 0 {
		return 0
	}
	samples := b.cur.Position()
	return time.Duration(samples) * time.Second / time.Duration(b.cfg.SampleRate)
}

func (b *BeepSink) preferredConfig() Config {
	return Config{SampleRate: 44100, Channels: 2}
}

// rampVolume linearly steps Volume.Volume from silent to full (or the
// reverse) over d, polled on a short ticker rather than a sample-accurate
// ramp — acceptable per spec.md §1's "no sub-sample-accurate timing"
// non-goal.
func (b *BeepSink) rampVolume(vol *effects.Volume, in bool, d time.Duration) {
	const steps = 20
	interval := d / steps
	if interval <= 0 {
		return
	}
	vol.Silent = false
	for i := 0; i <= steps; i++ {
		frac := float64(i) / steps
		if !in {
			frac = 1 - frac
		}
		speaker.Lock()
		vol.Volume = volumeToExponent(frac)
		speaker.Unlock()
		time.Sleep(interval)
	}
}

// volumeToExponent maps a linear [0,1] volume onto effects.Volume's
// exponential Base-2 scale, matching FreddyMaster-muxic's NewVolumeCtrl
// convention (Volume: 0 == 2^0 == unity gain).
func volumeToExponent(v float64) float64 {
	if v <= 0 {
		return -10
	}
	return math.Log2(v)
}
