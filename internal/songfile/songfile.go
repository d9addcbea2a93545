// Package songfile loads songs from ABC, YAML and msgpack files.
package songfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cbegin/ardsound-go/internal/abc"
	"github.com/cbegin/ardsound-go/internal/note"
)

// ErrUnknownFormat is returned for a file extension with no decoder.
var ErrUnknownFormat = errors.New("unknown song format")

// File is the YAML and msgpack song document. Body holds notes in ABC note
// syntax and is appended after Notes.
//
//	title: Scale
//	tempo: 90
//	body: C D E F | G A B c
type File struct {
	Title string      `yaml:"title" msgpack:"title"`
	Tempo float64     `yaml:"tempo,omitempty" msgpack:"tempo,omitempty"`
	Notes []note.Note `yaml:"notes,omitempty" msgpack:"notes,omitempty"`
	Body  string      `yaml:"body,omitempty" msgpack:"body,omitempty"`
}

// Loaded is a decoded song. Tempo is zero when the file does not name one.
type Loaded struct {
	Song  note.Song
	Tempo note.Tempo
	// Headers is set for ABC input only.
	Headers map[byte][]string
}

// TempoOr returns the file's tempo, or fallback when it has none.
func (l Loaded) TempoOr(fallback note.Tempo) note.Tempo {
	if l.Tempo > 0 {
		return l.Tempo
	}
	return fallback
}

// Load picks a decoder by extension: .abc, .yaml/.yml or .msgpack/.mpk.
func Load(path string, cfg abc.ParserConfig) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, fmt.Errorf("read song: %w", err)
	}
	var out Loaded
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".abc":
		out, err = DecodeABC(data, cfg)
	case ".yaml", ".yml":
		out, err = DecodeYAML(data, cfg)
	case ".msgpack", ".mpk":
		out, err = DecodeMsgpack(data, cfg)
	default:
		return Loaded{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return Loaded{}, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func DecodeABC(data []byte, cfg abc.ParserConfig) (Loaded, error) {
	tune, err := abc.NewParser(cfg).Parse(string(data))
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{Song: tune.Song, Tempo: tune.Tempo, Headers: tune.Headers}, nil
}

func DecodeYAML(data []byte, cfg abc.ParserConfig) (Loaded, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Loaded{}, fmt.Errorf("decode yaml: %w", err)
	}
	return f.resolve(cfg)
}

func DecodeMsgpack(data []byte, cfg abc.ParserConfig) (Loaded, error) {
	var f File
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return Loaded{}, fmt.Errorf("decode msgpack: %w", err)
	}
	return f.resolve(cfg)
}

// EncodeMsgpack stores song with structured notes.
func EncodeMsgpack(song note.Song, tempo note.Tempo) ([]byte, error) {
	return msgpack.Marshal(FromSong(song, tempo))
}

func FromSong(song note.Song, tempo note.Tempo) File {
	return File{Title: song.Title(), Tempo: float64(tempo), Notes: song.Notes()}
}

func (f File) resolve(cfg abc.ParserConfig) (Loaded, error) {
	if f.Tempo < 0 {
		return Loaded{}, fmt.Errorf("negative tempo %v", f.Tempo)
	}
	notes := append([]note.Note(nil), f.Notes...)
	if strings.TrimSpace(f.Body) != "" {
		body, err := abc.NewParser(cfg).ParseNotes(f.Body)
		if err != nil {
			return Loaded{}, err
		}
		notes = append(notes, body...)
	}
	return Loaded{Song: note.NewSong(f.Title, notes), Tempo: note.Tempo(f.Tempo)}, nil
}
