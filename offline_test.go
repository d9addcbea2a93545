package ardsound

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/cbegin/ardsound-go/internal/note"
	"github.com/cbegin/ardsound-go/internal/synth"
)

func scale() note.Song {
	return note.NewSong("scale", []note.Note{
		{Pitch: note.Pitch(note.C, 0), Length: note.UnitLength()},
		{Pitch: note.Rest, Length: note.UnitLength()},
		{Pitch: note.Pitch(note.E, 0), Length: note.MultipleOf(2)},
	})
}

func TestFrames(t *testing.T) {
	// 4 units at 60 BPM = 1 s
	if got := Frames(scale(), 60, 8000); got != 8000 {
		t.Fatalf("frames = %d, want 8000", got)
	}
}

func TestRenderSamplesLayout(t *testing.T) {
	out, err := RenderSamples(scale(), 60, synth.Format{SampleRate: 8000, Channels: 2})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) != 16000 {
		t.Fatalf("got %d samples, want 16000", len(out))
	}
	for i := 0; i < len(out); i += 2 {
		if out[i] != out[i+1] {
			t.Fatalf("frame %d channels differ: %v vs %v", i/2, out[i], out[i+1])
		}
	}
	// the rest (0.25 s .. 0.5 s) is silent
	for f := 2000; f < 4000; f++ {
		if out[f*2] != 0 {
			t.Fatalf("frame %d = %v during rest", f, out[f*2])
		}
	}
}

func TestWriteRawPCM16MatchesRender(t *testing.T) {
	format := synth.Format{SampleRate: 8000, Channels: 1}
	var buf bytes.Buffer
	if err := WriteRawPCM16(&buf, scale(), 60, format); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() != 8000*2 {
		t.Fatalf("wrote %d bytes, want 16000", buf.Len())
	}
	ref, _ := RenderSamples(scale(), 60, format)
	raw := buf.Bytes()
	for i := 0; i < 8000; i += 97 {
		got := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		if want := synth.ToPCM16(float64(ref[i])); absDiff(got, want) > 1 {
			t.Fatalf("sample %d = %d, want %d", i, got, want)
		}
	}
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scale.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteWAV(f, scale(), 60, synth.Format{SampleRate: 8000, Channels: 2}); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	f.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE header")
	}
	if want := 44 + 8000*2*2; len(data) != want {
		t.Fatalf("wav size = %d, want %d", len(data), want)
	}
	if ch := binary.LittleEndian.Uint16(data[22:]); ch != 2 {
		t.Fatalf("channels = %d, want 2", ch)
	}
	if rate := binary.LittleEndian.Uint32(data[24:]); rate != 8000 {
		t.Fatalf("rate = %d, want 8000", rate)
	}
}

func TestWriteWAVRejectsSurround(t *testing.T) {
	var f *os.File
	if err := WriteWAV(f, scale(), 60, synth.Format{SampleRate: 8000, Channels: 6}); err == nil {
		t.Fatalf("expected error for 6 channels")
	}
}

func absDiff(a, b int16) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func BenchmarkRenderSamples(b *testing.B) {
	format := synth.Format{SampleRate: 44100, Channels: 2}
	for i := 0; i < b.N; i++ {
		if _, err := RenderSamples(scale(), 60, format); err != nil {
			b.Fatal(err)
		}
	}
}
