// Package decode supplies the one concrete player.DecodeFunc the daemon
// wires at startup. The decoder ABI itself is out of scope (spec.md §1
// Non-goals): this package only demonstrates turning a path into a
// sink.Source, grounded on FreddyMaster-muxic/internal/util/audio.go's
// mp3.Decode usage and generalized to resample into the sink's preferred
// format when they differ.
package decode

import (
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"

	"github.com/famish99/uampd/internal/errs"
	"github.com/famish99/uampd/internal/player"
	"github.com/famish99/uampd/internal/sink"
)

// New returns a DecodeFunc that decodes MP3 files, resampling into want
// if the file's native format differs. Extend with additional formats
// (flac, ogg, wav) the same way as the need arises.
func New(want sink.Config) player.DecodeFunc {
	return func(path string) (sink.Source, sink.Config, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, sink.Config{}, errs.Wrap(errs.Io, "failed to open audio file", err)
		}
		streamer, format, err := mp3.Decode(f)
		if err != nil {
			f.Close()
			return nil, sink.Config{}, errs.Wrap(errs.Sink, "failed to decode mp3", err)
		}

		var stream beep.StreamSeekCloser = streamer
		cfg := sink.Config{SampleRate: int(format.SampleRate), Channels: format.NumChannels}
		if want.SampleRate != 0 && cfg.SampleRate != want.SampleRate {
			stream = &resampledSeeker{
				StreamSeekCloser: streamer,
				resampled:        beep.Resample(4, format.SampleRate, beep.SampleRate(want.SampleRate), streamer),
				ratio:            float64(format.SampleRate) / float64(want.SampleRate),
			}
			cfg.SampleRate = want.SampleRate
		}

		return &source{stream: stream, rate: beep.SampleRate(cfg.SampleRate)}, cfg, nil
	}
}

// source adapts a beep.StreamSeekCloser to sink.Source and adds the
// SeekTo(time.Duration) capability BeepSink's seek() type-asserts for.
type source struct {
	stream beep.StreamSeekCloser
	rate   beep.SampleRate
}

func (s *source) Stream(buf [][2]float64) (int, bool) { return s.stream.Stream(buf) }
func (s *source) Len() int                            { return s.stream.Len() }
func (s *source) Position() int                       { return s.stream.Position() }
func (s *source) Close() error                        { return s.stream.Close() }

// SeekTo implements the capability BeepSink.seek looks for via a type
// assertion, converting a wall-clock position into a sample offset.
func (s *source) SeekTo(pos time.Duration) error {
	return s.stream.Seek(s.rate.N(pos))
}

// resampledSeeker lets Resample's output still answer Len/Position/Seek
// in terms of the *resampled* rate, since beep.Resample itself only
// implements beep.Streamer (no seek/len/position).
type resampledSeeker struct {
	beep.StreamSeekCloser
	resampled beep.Streamer
	ratio     float64
}

func (r *resampledSeeker) Stream(buf [][2]float64) (int, bool) { return r.resampled.Stream(buf) }

func (r *resampledSeeker) Len() int {
	return int(float64(r.StreamSeekCloser.Len()) / r.ratio)
}

func (r *resampledSeeker) Position() int {
	return int(float64(r.StreamSeekCloser.Position()) / r.ratio)
}

func (r *resampledSeeker) Seek(p int) error {
	return r.StreamSeekCloser.Seek(int(float64(p) * r.ratio))
}
