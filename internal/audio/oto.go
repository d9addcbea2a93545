//go:build !headless

package audio

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoSink plays signed 16-bit little-endian frames with any channel count.
type OtoSink struct {
	mu     sync.Mutex
	player *oto.Player
	reader *StreamReader
}

var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoOptions oto.NewContextOptions
	otoErr     error
)

// oto allows one context per process; later callers must ask for the same
// format.
func sharedOtoContext(sampleRate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		otoOptions = oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(&otoOptions)
		if err != nil {
			otoErr = fmt.Errorf("%w: %v", ErrNoOutputDevice, err)
			return
		}
		<-ready
		otoContext = ctx
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoOptions.SampleRate != sampleRate || otoOptions.ChannelCount != channels {
		return nil, fmt.Errorf("%w: oto context already running at %d Hz x%d (requested %d Hz x%d)",
			ErrStreamSetup, otoOptions.SampleRate, otoOptions.ChannelCount, sampleRate, channels)
	}
	return otoContext, nil
}

func newOtoSink(sampleRate, channels int, source SampleSource) (Sink, error) {
	reader, err := NewStreamReader(source, channels, Signed16LE)
	if err != nil {
		return nil, err
	}
	ctx, err := sharedOtoContext(sampleRate, channels)
	if err != nil {
		return nil, err
	}
	return &OtoSink{player: ctx.NewPlayer(reader), reader: reader}, nil
}

func (s *OtoSink) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		s.player.Play()
	}
}

func (s *OtoSink) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		s.player.Pause()
	}
}

func (s *OtoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}
