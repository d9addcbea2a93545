//go:build !headless

package audio

import (
	"fmt"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// EbitenSink plays float32 stereo through ebiten's audio context.
type EbitenSink struct {
	player *ebitaudio.Player
	reader *StreamReader
}

var (
	ebitenOnce       sync.Once
	ebitenContext    *ebitaudio.Context
	ebitenSampleRate int
)

// ebiten allows one context per process.
func sharedEbitenContext(sampleRate int) (*ebitaudio.Context, error) {
	ebitenOnce.Do(func() {
		ebitenSampleRate = sampleRate
		ebitenContext = ebitaudio.NewContext(sampleRate)
	})
	if ebitenSampleRate != sampleRate {
		return nil, fmt.Errorf("%w: ebiten context already running at %d Hz (requested %d Hz)", ErrStreamSetup, ebitenSampleRate, sampleRate)
	}
	return ebitenContext, nil
}

func newEbitenSink(sampleRate int, source SampleSource) (Sink, error) {
	ctx, err := sharedEbitenContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader, err := NewStreamReader(source, 2, Float32LE)
	if err != nil {
		return nil, err
	}
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoOutputDevice, err)
	}
	return &EbitenSink{player: pl, reader: reader}, nil
}

func (s *EbitenSink) Play()  { s.player.Play() }
func (s *EbitenSink) Pause() { s.player.Pause() }

// Position is what the listener hears right now.
func (s *EbitenSink) Position() time.Duration {
	return s.player.Position()
}

func (s *EbitenSink) Close() error {
	s.player.Pause()
	if err := s.player.Close(); err != nil {
		return err
	}
	return s.reader.Close()
}
