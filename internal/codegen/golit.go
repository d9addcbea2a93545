package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"text/template"

	"github.com/cbegin/ardsound-go/internal/note"
	"github.com/cbegin/ardsound-go/internal/songfile"
)

const goTemplate = `{{if .BuildTags}}//go:build {{.BuildTags}}

{{end}}// Code generated by ardsound export; DO NOT EDIT.

package {{.Package}}

import "github.com/cbegin/ardsound-go/internal/note"

// {{.Name}}Tempo is the tempo of {{printf "%q" .Title}} in BPM.
const {{.Name}}Tempo = {{.Tempo}}

var {{.Name}} = note.NewSong({{printf "%q" .Title}}, []note.Note{
{{- range .Notes}}
	{Pitch: {{pitch .Pitch}}, Length: {{length .Length}}},
{{- end}}
})
`

var classIdents = [...]string{
	"A", "ASharp", "B", "C", "CSharp", "D", "DSharp", "E", "F", "FSharp", "G", "GSharp",
}

var goTmpl = template.Must(template.New("song").Funcs(template.FuncMap{
	"pitch": func(p note.PitchOrRest) string {
		if p.Rest {
			return "note.Rest"
		}
		return fmt.Sprintf("note.Pitch(note.%s, %d)", classIdents[p.Class.HalfStepsFromA()], p.Octave)
	},
	"length": func(l note.Length) string {
		switch l.Kind {
		case note.Multiple:
			return fmt.Sprintf("note.MultipleOf(%d)", l.N)
		case note.Division:
			return fmt.Sprintf("note.DivisionOf(%d)", l.N)
		default:
			return "note.UnitLength()"
		}
	},
}).Parse(goTemplate))

type GoOptions struct {
	// Package is the package clause of the generated file.
	Package string
	// Name is the song variable; the tempo constant is Name+"Tempo".
	Name string
	// BuildTags is an optional build constraint expression.
	BuildTags string
}

func DefaultGoOptions() GoOptions {
	return GoOptions{Package: "main", Name: "song"}
}

// WriteGo writes song as a gofmt'ed Go source file declaring a note.Song
// variable and its tempo constant.
func WriteGo(w io.Writer, song note.Song, tempo note.Tempo, opts GoOptions) error {
	if opts.Package == "" || opts.Name == "" {
		return fmt.Errorf("codegen: package and name are required")
	}
	data := struct {
		GoOptions
		Title string
		Tempo string
		Notes []note.Note
	}{
		GoOptions: opts,
		Title:     song.Title(),
		Tempo:     fmt.Sprintf("%g", float64(tempo)),
		Notes:     song.Notes(),
	}
	var buf bytes.Buffer
	if err := goTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render go source: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format go source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// WriteMsgpack writes song in the msgpack song format read by songfile.
func WriteMsgpack(w io.Writer, song note.Song, tempo note.Tempo) error {
	data, err := songfile.EncodeMsgpack(song, tempo)
	if err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	_, err = w.Write(data)
	return err
}
