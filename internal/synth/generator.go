package synth

import (
	"errors"
	"math"

	"github.com/gopxl/beep"

	"github.com/cbegin/ardsound-go/internal/note"
	"github.com/cbegin/ardsound-go/internal/sequencer"
)

// DefaultVolume attenuates the raw sine so a full-scale note is neither
// clipped nor harsh.
const DefaultVolume = 1.0 / 20

// FadeWindow is the trailing fraction of each note that ramps linearly to zero.
const FadeWindow = 0.10

// Format describes the sample layout produced by a Generator.
type Format struct {
	SampleRate int
	Channels   int
}

// BeepFormat is the matching beep format for 16-bit output.
func (f Format) BeepFormat() beep.Format {
	return beep.Format{SampleRate: beep.SampleRate(f.SampleRate), NumChannels: f.Channels, Precision: 2}
}

type Option func(*config)

type config struct {
	volume float64
	onNote func(sequencer.Step)
	onEnd  func()
}

func WithVolume(v float64) Option {
	return func(c *config) {
		c.volume = v
	}
}

// WithNoteCallback installs a callback invoked when each note starts. It runs
// on the rendering goroutine (the audio thread for live playback).
func WithNoteCallback(fn func(sequencer.Step)) Option {
	return func(c *config) {
		c.onNote = fn
	}
}

// WithEndCallback installs a callback invoked once when the song runs out.
func WithEndCallback(fn func()) Option {
	return func(c *config) {
		c.onEnd = fn
	}
}

// Generator renders a song as a sine-wave sample stream. Once the song ends it
// produces silence forever; callers that need a defined stop track the song's
// playtime themselves.
//
// A Generator is owned by a single rendering context and is not safe for
// concurrent use.
type Generator struct {
	seq    *sequencer.Sequencer
	format Format
	volume float64
	// counter spans the whole playback and is never reset: resetting it at
	// any boundary shifts the phase of a note in flight and clicks.
	counter uint64
}

func New(song note.Song, tempo note.Tempo, format Format, opts ...Option) (*Generator, error) {
	if format.SampleRate <= 0 {
		return nil, errors.New("sample rate must be positive")
	}
	if format.Channels <= 0 {
		return nil, errors.New("channel count must be positive")
	}
	cfg := config{volume: DefaultVolume}
	for _, opt := range opts {
		opt(&cfg)
	}
	seq := sequencer.NewWithOptions(song, tempo, sequencer.Options{
		QuantumRate: float64(format.SampleRate),
		OnNote:      cfg.onNote,
		OnEnd:       cfg.onEnd,
	})
	return &Generator{seq: seq, format: format, volume: cfg.volume}, nil
}

func (g *Generator) Format() Format { return g.format }

// SampleCount returns the number of frames produced so far.
func (g *Generator) SampleCount() uint64 { return g.counter }

// Done reports whether the song has been fully rendered.
func (g *Generator) Done() bool { return g.seq.Done() }

// Next produces the value of the next frame in [-volume, volume].
func (g *Generator) Next() float64 {
	rs := g.seq.Advance()
	n := g.counter
	g.counter++
	if rs.Done || !rs.Pitched {
		return 0
	}
	t := float64(n) / float64(g.format.SampleRate)
	return math.Sin(2*math.Pi*rs.Frequency*t) * g.volume * Fade(rs.Remaining)
}

// Process fills dst with interleaved frames; the same value is written to
// every channel. A trailing partial frame is left untouched.
func (g *Generator) Process(dst []float32) {
	ch := g.format.Channels
	frames := len(dst) / ch
	for f := 0; f < frames; f++ {
		v := float32(g.Next())
		for c := 0; c < ch; c++ {
			dst[f*ch+c] = v
		}
	}
}

// ReadPCM16 fills dst with interleaved signed 16-bit frames and returns the
// number of samples written.
func (g *Generator) ReadPCM16(dst []int16) int {
	ch := g.format.Channels
	frames := len(dst) / ch
	for f := 0; f < frames; f++ {
		v := ToPCM16(g.Next())
		for c := 0; c < ch; c++ {
			dst[f*ch+c] = v
		}
	}
	return frames * ch
}

// Stream implements beep.Streamer. beep always carries two channels; both
// receive the same value.
func (g *Generator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := g.Next()
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (g *Generator) Err() error { return nil }

var _ beep.Streamer = (*Generator)(nil)

// Fade returns the amplitude multiplier for a note with the given remaining
// fraction: 1 outside the fade window, falling linearly to 0 inside it.
func Fade(remaining float64) float64 {
	if remaining > FadeWindow {
		return 1
	}
	if remaining <= 0 {
		return 0
	}
	return remaining / FadeWindow
}

// ToPCM16 converts a sample in [-1, 1] to a signed 16-bit value, saturating
// outside that range.
func ToPCM16(v float64) int16 {
	if v >= 1 {
		return math.MaxInt16
	}
	if v <= -1 {
		return -math.MaxInt16
	}
	return int16(math.Round(v * math.MaxInt16))
}
