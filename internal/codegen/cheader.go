package codegen

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cbegin/ardsound-go/internal/note"
)

var (
	ErrUnsupportedLength = errors.New("length has no header encoding")
	ErrUnsupportedPitch  = errors.New("pitch out of header range")
)

const (
	// EndPitch marks the terminating lookup entry, which is always index 0.
	EndPitch = -127
	// NoNotePitch encodes a rest.
	NoNotePitch = 127
)

const headerTemplate = `#ifndef ARDSOUND_SONG
#define ARDSOUND_SONG

// This is a song file

#include <note.h>

struct Note note_lookup[] = {%s
};

short song[] = {
%s
};

#endif
`

// LengthID maps a length onto the header's 0..9 length code.
func LengthID(l note.Length) (int, error) {
	switch {
	case l.Kind == note.Unit, l.N == 1:
		return 5, nil
	case l.Kind == note.Division:
		switch l.N {
		case 32:
			return 0, nil
		case 16:
			return 1, nil
		case 8:
			return 2, nil
		case 4:
			return 3, nil
		case 2:
			return 4, nil
		}
	case l.Kind == note.Multiple:
		switch l.N {
		case 2:
			return 6, nil
		case 4:
			return 7, nil
		case 8:
			return 8, nil
		case 16:
			return 9, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrUnsupportedLength, l)
}

// PitchNumber encodes a pitch as signed half steps from A440, or NoNotePitch
// for a rest.
func PitchNumber(p note.PitchOrRest) (int, error) {
	if p.Rest {
		return NoNotePitch, nil
	}
	n := p.HalfStepsFromA440()
	if n <= EndPitch || n >= NoNotePitch {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedPitch, p)
	}
	return n, nil
}

// WriteCHeader writes song as a lookup table of distinct notes and an index
// list. Entry 0 of the table is the end marker, so every song index is offset
// by one and the list ends with 0.
func WriteCHeader(w io.Writer, song note.Song) error {
	opt := Optimize(song)

	var lookup strings.Builder
	writeLookupLine(&lookup, EndPitch, 0, len(opt.Uniques) > 0)
	for i, n := range opt.Uniques {
		pitch, err := PitchNumber(n.Pitch)
		if err != nil {
			return err
		}
		length, err := LengthID(n.Length)
		if err != nil {
			return err
		}
		writeLookupLine(&lookup, pitch, length, i+1 < len(opt.Uniques))
	}

	var list strings.Builder
	for _, idx := range opt.List {
		fmt.Fprintf(&list, "\t%d,\n", idx+1)
	}
	list.WriteString("\t0")

	_, err := fmt.Fprintf(w, headerTemplate, lookup.String(), list.String())
	return err
}

func writeLookupLine(b *strings.Builder, pitch, length int, more bool) {
	sep := ""
	if more {
		sep = ","
	}
	fmt.Fprintf(b, "\n\t{ .pitch = %4d, .length = %2d }%s", pitch, length, sep)
}
