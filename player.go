package ardsound

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	intaudio "github.com/cbegin/ardsound-go/internal/audio"
	"github.com/cbegin/ardsound-go/internal/note"
	intseq "github.com/cbegin/ardsound-go/internal/sequencer"
	"github.com/cbegin/ardsound-go/internal/synth"
)

// PlaybackEvent carries playback events from Watch().
type PlaybackEvent struct {
	Kind      int // EventNoteStarted or EventPlaybackEnded
	NoteIndex int
	Note      note.Note
	Frequency float64
}

const (
	EventNoteStarted int = iota
	EventPlaybackEnded
)

type PlayerOption func(*playerConfig)

type sinkOpener func(backend string, sampleRate, channels int, source intaudio.SampleSource) (intaudio.Sink, error)

type playerConfig struct {
	channels  int
	backend   string
	volume    float64
	sampleTap func([]float32)
	logger    *slog.Logger
	open      sinkOpener
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		channels: 1,
		backend:  intaudio.BackendOto,
		volume:   synth.DefaultVolume,
		open:     intaudio.Open,
	}
}

// WithChannels sets the interleaved channel count. The ebiten backend needs 2.
func WithChannels(n int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.channels = n
	}
}

// WithBackend selects "oto" (default) or "ebiten".
func WithBackend(name string) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.backend = name
	}
}

// WithVolume sets the sine amplitude before the master volume is applied.
func WithVolume(v float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.volume = v
	}
}

// WithSampleTap installs a callback invoked with each generated buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

func WithLogger(l *slog.Logger) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.logger = l
	}
}

// Player plays one song at a time on a live audio device. Playback stops after
// the song's total playtime; the generator itself never ends.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	cfg        playerConfig
	log        *slog.Logger
	master     atomic.Uint64 // float64 bits
	sink       intaudio.Sink
	timer      *time.Timer
	done       chan struct{}
	eventCh    chan PlaybackEvent
	eventChMu  sync.Mutex
}

// tapSource applies the master volume and the sample tap on the audio thread.
type tapSource struct {
	gen       *synth.Generator
	master    *atomic.Uint64
	sampleTap func([]float32)
}

func (s *tapSource) Process(dst []float32) {
	s.gen.Process(dst)
	if v := math.Float64frombits(s.master.Load()); v != 1 {
		for i := range dst {
			dst[i] *= float32(v)
		}
	}
	if s.sampleTap != nil {
		s.sampleTap(dst)
	}
}

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.channels <= 0 {
		return nil, errors.New("channel count must be positive")
	}
	log := cfg.logger
	if log == nil {
		log = slog.Default()
	}
	p := &Player{sampleRate: sampleRate, cfg: cfg, log: log}
	p.master.Store(math.Float64bits(1))
	return p, nil
}

// Play starts song at tempo, replacing any song already playing.
func (p *Player) Play(song note.Song, tempo note.Tempo) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.teardownLocked()
	// Signal any existing Wait() that the previous playback was replaced
	if p.done != nil {
		close(p.done)
	}
	done := make(chan struct{})
	p.done = done

	gen, err := synth.New(song, tempo, synth.Format{SampleRate: p.sampleRate, Channels: p.cfg.channels},
		synth.WithVolume(p.cfg.volume),
		synth.WithNoteCallback(func(st intseq.Step) {
			p.sendEvent(PlaybackEvent{Kind: EventNoteStarted, NoteIndex: st.Index, Note: st.Note, Frequency: st.Frequency})
		}),
	)
	if err != nil {
		p.abortLocked(done)
		return err
	}
	src := &tapSource{gen: gen, master: &p.master, sampleTap: p.cfg.sampleTap}
	sink, err := p.cfg.open(p.cfg.backend, p.sampleRate, p.cfg.channels, src)
	if err != nil {
		p.abortLocked(done)
		return err
	}
	p.sink = sink

	playtime := time.Duration(song.TotalPlaytime(tempo) * float64(time.Second))
	p.log.Info("playing", "title", song.Title(), "notes", song.Len(), "tempo", float64(tempo),
		"playtime", playtime, "backend", p.cfg.backend, "rate", p.sampleRate, "channels", p.cfg.channels)
	p.sink.Play()
	p.timer = time.AfterFunc(playtime, func() { p.finish(done) })
	return nil
}

// finish ends the playback that owns done, unless it was already replaced.
func (p *Player) finish(done chan struct{}) {
	p.mu.Lock()
	if p.done != done {
		p.mu.Unlock()
		return
	}
	err := p.teardownLocked()
	p.done = nil
	p.mu.Unlock()
	if err != nil {
		p.log.Warn("closing audio sink", "error", err)
	}
	p.log.Debug("playback ended")
	p.sendEvent(PlaybackEvent{Kind: EventPlaybackEnded})
	close(done)
}

// abortLocked releases Wait callers after a Play that failed to start.
func (p *Player) abortLocked(done chan struct{}) {
	if p.done == done {
		p.done = nil
	}
	close(done)
}

func (p *Player) teardownLocked() error {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.sink == nil {
		return nil
	}
	err := p.sink.Close()
	p.sink = nil
	return err
}

func (p *Player) sendEvent(ev PlaybackEvent) {
	p.eventChMu.Lock()
	ch := p.eventCh
	p.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
			// Channel full; drop event
		}
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink != nil {
		p.sink.Pause()
	}
}

func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink != nil {
		p.sink.Play()
	}
}

func (p *Player) Stop() error {
	p.mu.Lock()
	if p.sink == nil && p.done == nil {
		p.mu.Unlock()
		return nil
	}
	err := p.teardownLocked()
	done := p.done
	p.done = nil
	p.mu.Unlock()
	p.sendEvent(PlaybackEvent{Kind: EventPlaybackEnded})
	if done != nil {
		close(done)
	}
	return err
}

// Wait blocks until the current playback ends or is stopped. It returns
// immediately if nothing is playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Watch returns a channel that receives playback events. The channel is
// buffered (cap 8) and events are dropped when it is full. Only the most
// recent Watch() channel receives events; call Watch before Play.
func (p *Player) Watch() <-chan PlaybackEvent {
	ch := make(chan PlaybackEvent, 8)
	p.eventChMu.Lock()
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}

// SetMasterVolume sets a runtime volume scalar applied on top of the sine
// volume. 1.0 is default. It takes effect on the next buffer.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.master.Store(math.Float64bits(volume))
}

func (p *Player) MasterVolume() float64 {
	return math.Float64frombits(p.master.Load())
}
