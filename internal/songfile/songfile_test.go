package songfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cbegin/ardsound-go/internal/abc"
	"github.com/cbegin/ardsound-go/internal/note"
)

func write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadABC(t *testing.T) {
	path := write(t, "tune.ABC", []byte("T:Scale\nQ:90\nC D E F\n"))
	got, err := Load(path, abc.DefaultParserConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Song.Title() != "Scale" || got.Song.Len() != 4 || got.Tempo != 90 {
		t.Fatalf("got %v tempo %v", got.Song, got.Tempo)
	}
	if got.Headers['Q'][0] != "90" {
		t.Fatalf("headers = %v", got.Headers)
	}
}

func TestLoadYAMLStructuredAndBody(t *testing.T) {
	doc := `title: Mixed
notes:
  - pitch: {class: 0, octave: 0}
    length: {kind: 1, n: 2}
  - pitch: {rest: true}
    length: {kind: 0}
body: "E/2 ^G,"
`
	got, err := Load(write(t, "mixed.yaml", []byte(doc)), abc.DefaultParserConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []note.Note{
		{Pitch: note.Pitch(note.A, 0), Length: note.MultipleOf(2)},
		{Pitch: note.Rest, Length: note.UnitLength()},
		{Pitch: note.Pitch(note.E, 0), Length: note.DivisionOf(2)},
		{Pitch: note.Pitch(note.GSharp, -1), Length: note.UnitLength()},
	}
	notes := got.Song.Notes()
	if len(notes) != len(want) {
		t.Fatalf("got %d notes, want %d: %v", len(notes), len(want), got.Song)
	}
	for i := range want {
		if notes[i] != want[i] {
			t.Fatalf("note %d = %v, want %v", i, notes[i], want[i])
		}
	}
	if got.Tempo != 0 || got.TempoOr(75) != 75 {
		t.Fatalf("tempo = %v, fallback %v", got.Tempo, got.TempoOr(75))
	}
}

func TestMsgpackPreservesSong(t *testing.T) {
	song := note.NewSong("blob", []note.Note{
		{Pitch: note.Pitch(note.C, 1), Length: note.DivisionOf(4)},
		{Pitch: note.Rest, Length: note.MultipleOf(8)},
	})
	data, err := EncodeMsgpack(song, 132)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Load(write(t, "song.msgpack", data), abc.DefaultParserConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Song.String() != song.String() || got.Tempo != 132 {
		t.Fatalf("got %v @%v, want %v @132", got.Song, got.Tempo, song)
	}
}

func TestLoadErrors(t *testing.T) {
	cfg := abc.DefaultParserConfig()
	if _, err := Load(write(t, "x.mid", nil), cfg); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
	if _, err := Load(write(t, "bad.yaml", []byte("body: \"C/0\"\n")), cfg); !errors.Is(err, abc.ErrSyntax) {
		t.Fatalf("err = %v, want abc.ErrSyntax", err)
	}
	if _, err := Load(write(t, "neg.yaml", []byte("tempo: -4\n")), cfg); err == nil {
		t.Fatalf("expected error for negative tempo")
	}
	if _, err := Load(write(t, "junk.msgpack", []byte{0xc1}), cfg); err == nil {
		t.Fatalf("expected msgpack decode error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "none.abc"), cfg); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}
