package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/cbegin/ardsound-go/internal/synth"
)

// SampleSource fills dst with interleaved float32 frames.
type SampleSource interface {
	Process(dst []float32)
}

// Encoding is the byte layout a StreamReader produces.
type Encoding int

const (
	Float32LE Encoding = iota
	Signed16LE
)

func (e Encoding) bytesPerSample() int {
	if e == Signed16LE {
		return 2
	}
	return 4
}

func (e Encoding) String() string {
	if e == Signed16LE {
		return "s16le"
	}
	return "f32le"
}

// StreamReader adapts a SampleSource to the io.Reader the device players
// pull from. It only ever returns whole frames and never reports EOF.
// Signed16LE uses the same saturation as synth.ToPCM16, so live and file
// output carry identical samples.
type StreamReader struct {
	mu       sync.Mutex
	source   SampleSource
	channels int
	enc      Encoding
	buf      []float32
}

func NewStreamReader(source SampleSource, channels int, enc Encoding) (*StreamReader, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrStreamSetup, channels)
	}
	return &StreamReader{source: source, channels: channels, enc: enc}, nil
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	width := r.enc.bytesPerSample()
	frames := len(p) / (width * r.channels)
	if frames == 0 {
		return 0, nil
	}
	need := frames * r.channels
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i, v := range r.buf {
		switch r.enc {
		case Signed16LE:
			binary.LittleEndian.PutUint16(p[i*2:], uint16(synth.ToPCM16(float64(v))))
		default:
			binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
		}
	}
	return need * width, nil
}

func (r *StreamReader) Close() error { return nil }
