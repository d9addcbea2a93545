// Package codegen exports songs as source for the embedded player.
package codegen

import "github.com/cbegin/ardsound-go/internal/note"

// Optimized stores each distinct note once. List indexes Uniques and has one
// entry per note of the song.
type Optimized struct {
	Uniques []note.Note
	List    []int
}

func Optimize(song note.Song) Optimized {
	var out Optimized
	seen := make(map[note.Note]int)
	for _, n := range song.Notes() {
		idx, ok := seen[n]
		if !ok {
			idx = len(out.Uniques)
			out.Uniques = append(out.Uniques, n)
			seen[n] = idx
		}
		out.List = append(out.List, idx)
	}
	return out
}

// Expand rebuilds the note list.
func (o Optimized) Expand() []note.Note {
	notes := make([]note.Note, len(o.List))
	for i, idx := range o.List {
		notes[i] = o.Uniques[idx]
	}
	return notes
}
