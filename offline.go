package ardsound

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/cbegin/ardsound-go/internal/note"
	"github.com/cbegin/ardsound-go/internal/synth"
)

// Frames is the number of frames needed to cover the song's playtime.
func Frames(song note.Song, tempo note.Tempo, sampleRate int) int {
	return int(math.Ceil(song.TotalPlaytime(tempo) * float64(sampleRate)))
}

// RenderSamples renders the whole song as interleaved float32 frames.
func RenderSamples(song note.Song, tempo note.Tempo, format synth.Format, opts ...synth.Option) ([]float32, error) {
	gen, err := synth.New(song, tempo, format, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]float32, Frames(song, tempo, format.SampleRate)*format.Channels)
	gen.Process(out)
	return out, nil
}

const pcmChunkFrames = 4096

// WriteRawPCM16 writes the song as headerless signed 16-bit little-endian
// interleaved frames.
func WriteRawPCM16(w io.Writer, song note.Song, tempo note.Tempo, format synth.Format, opts ...synth.Option) error {
	gen, err := synth.New(song, tempo, format, opts...)
	if err != nil {
		return err
	}
	buf := make([]int16, pcmChunkFrames*format.Channels)
	for left := Frames(song, tempo, format.SampleRate); left > 0; {
		frames := min(left, pcmChunkFrames)
		n := gen.ReadPCM16(buf[:frames*format.Channels])
		if err := binary.Write(w, binary.LittleEndian, buf[:n]); err != nil {
			return fmt.Errorf("write pcm: %w", err)
		}
		left -= frames
	}
	return nil
}

// WriteWAV writes the song as a 16-bit WAV file.
func WriteWAV(w io.WriteSeeker, song note.Song, tempo note.Tempo, format synth.Format, opts ...synth.Option) error {
	if format.Channels > 2 {
		return fmt.Errorf("wav output supports 1 or 2 channels, got %d", format.Channels)
	}
	gen, err := synth.New(song, tempo, format, opts...)
	if err != nil {
		return err
	}
	stream := beep.Take(Frames(song, tempo, format.SampleRate), gen)
	if err := wav.Encode(w, stream, format.BeepFormat()); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
