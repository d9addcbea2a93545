package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// rampSource emits 0.1, 0.2, ... so frame boundaries are visible.
type rampSource struct{ next float32 }

func (s *rampSource) Process(dst []float32) {
	for i := range dst {
		s.next += 0.1
		dst[i] = s.next
	}
}

type constSource float32

func (c constSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = float32(c)
	}
}

func TestStreamReaderFloat32WholeFrames(t *testing.T) {
	r, err := NewStreamReader(&rampSource{}, 2, Float32LE)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p := make([]byte, 8*3+5)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 24 {
		t.Fatalf("read %d bytes, want 24 (three stereo frames)", n)
	}
	for i := 0; i < 6; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		want := float32(0.1) * float32(i+1)
		if math.Abs(float64(got-want)) > 1e-6 {
			t.Fatalf("sample %d = %v, want %v", i, got, want)
		}
	}
}

func TestStreamReaderSigned16(t *testing.T) {
	r, err := NewStreamReader(constSource(0.5), 1, Signed16LE)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p := make([]byte, 7)
	n, _ := r.Read(p)
	if n != 6 {
		t.Fatalf("read %d bytes, want 6", n)
	}
	if got := int16(binary.LittleEndian.Uint16(p)); got != 16384 {
		t.Fatalf("sample = %d, want 16384", got)
	}
}

func TestStreamReaderSigned16Saturates(t *testing.T) {
	for _, tt := range []struct {
		in   float32
		want int16
	}{
		{2, math.MaxInt16},
		{-2, -math.MaxInt16},
		{-1, -math.MaxInt16},
		{1, math.MaxInt16},
		{0, 0},
	} {
		r, _ := NewStreamReader(constSource(tt.in), 1, Signed16LE)
		p := make([]byte, 2)
		r.Read(p)
		if got := int16(binary.LittleEndian.Uint16(p)); got != tt.want {
			t.Fatalf("%v encoded as %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStreamReaderShortBuffer(t *testing.T) {
	r, _ := NewStreamReader(constSource(1), 2, Float32LE)
	n, err := r.Read(make([]byte, 7))
	if n != 0 || err != nil {
		t.Fatalf("got %d, %v; want 0, nil", n, err)
	}
}

func TestStreamSetupErrors(t *testing.T) {
	if _, err := NewStreamReader(constSource(0), 0, Float32LE); !errors.Is(err, ErrStreamSetup) {
		t.Fatalf("err = %v, want ErrStreamSetup", err)
	}
	if _, err := Open(BackendOto, 0, 1, constSource(0)); !errors.Is(err, ErrStreamSetup) {
		t.Fatalf("err = %v, want ErrStreamSetup", err)
	}
	if _, err := Open(BackendEbiten, 44100, 1, constSource(0)); !errors.Is(err, ErrStreamSetup) {
		t.Fatalf("err = %v, want ErrStreamSetup", err)
	}
	if _, err := Open("pulse", 44100, 1, constSource(0)); !errors.Is(err, ErrNoOutputDevice) {
		t.Fatalf("err = %v, want ErrNoOutputDevice", err)
	}
}
