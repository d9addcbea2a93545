package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOutputDevice is returned when no audio device can be opened.
	ErrNoOutputDevice = errors.New("no audio output device")
	// ErrStreamSetup is returned when a device refuses the stream format.
	ErrStreamSetup = errors.New("audio stream setup failed")
)

// Sink is a live output pulling samples from a SampleSource.
type Sink interface {
	Play()
	Pause()
	Close() error
}

const (
	BackendOto    = "oto"
	BackendEbiten = "ebiten"
)

// Open starts a device sink for source. The ebiten backend is always stereo,
// so channels must be 2 for it.
func Open(backend string, sampleRate, channels int, source SampleSource) (Sink, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrStreamSetup, sampleRate)
	}
	switch backend {
	case BackendOto, "":
		return newOtoSink(sampleRate, channels, source)
	case BackendEbiten:
		if channels != 2 {
			return nil, fmt.Errorf("%w: ebiten plays stereo only, got %d channels", ErrStreamSetup, channels)
		}
		return newEbitenSink(sampleRate, source)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrNoOutputDevice, backend)
	}
}
