package note

import (
	"fmt"
	"strings"
)

// PitchClass is one of the twelve equal-tempered classes, ordered upward from A.
type PitchClass int

const (
	A PitchClass = iota
	ASharp
	B
	C
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
)

const pitchClassCount = 12

// Enharmonic aliases.
const (
	BFlat = ASharp
	DFlat = CSharp
	EFlat = DSharp
	GFlat = FSharp
	AFlat = GSharp
)

var pitchClassNames = [pitchClassCount]string{
	"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#",
}

// PitchClassFromLetter maps a note letter (either case) to its natural class.
func PitchClassFromLetter(ch byte) (PitchClass, bool) {
	switch ch | 0x20 {
	case 'a':
		return A, true
	case 'b':
		return B, true
	case 'c':
		return C, true
	case 'd':
		return D, true
	case 'e':
		return E, true
	case 'f':
		return F, true
	case 'g':
		return G, true
	}
	return 0, false
}

// HalfStepsFromA returns the distance above A within one octave (0..11).
func (c PitchClass) HalfStepsFromA() int {
	return int(c.normalize())
}

func (c PitchClass) HalfStepUp() PitchClass   { return (c + 1).normalize() }
func (c PitchClass) HalfStepDown() PitchClass { return (c - 1).normalize() }

func (c PitchClass) normalize() PitchClass {
	v := int(c) % pitchClassCount
	if v < 0 {
		v += pitchClassCount
	}
	return PitchClass(v)
}

func (c PitchClass) String() string {
	return pitchClassNames[c.normalize()]
}

// PitchOrRest is either a pitched note or a rest. Octave is relative to the
// octave holding A440.
type PitchOrRest struct {
	Rest   bool       `yaml:"rest,omitempty" msgpack:"rest,omitempty"`
	Class  PitchClass `yaml:"class" msgpack:"class"`
	Octave int        `yaml:"octave" msgpack:"octave"`
}

// Pitch builds a pitched value.
func Pitch(class PitchClass, octave int) PitchOrRest {
	return PitchOrRest{Class: class, Octave: octave}
}

// Rest is the silent pitch.
var Rest = PitchOrRest{Rest: true}

// HalfStepsFromA440 returns the signed distance in half steps from A440.
func (p PitchOrRest) HalfStepsFromA440() int {
	return p.Octave*pitchClassCount + p.Class.HalfStepsFromA()
}

func (p PitchOrRest) String() string {
	if p.Rest {
		return "rest"
	}
	return fmt.Sprintf("%s%+d", p.Class, p.Octave)
}

// LengthKind selects how a Length scales the unit.
type LengthKind int

const (
	Unit LengthKind = iota
	Multiple
	Division
)

// Length is a note length relative to one unit (a quarter of a beat).
type Length struct {
	Kind LengthKind `yaml:"kind" msgpack:"kind"`
	N    uint32     `yaml:"n,omitempty" msgpack:"n,omitempty"`
}

func UnitLength() Length         { return Length{Kind: Unit} }
func MultipleOf(n uint32) Length { return Length{Kind: Multiple, N: n} }
func DivisionOf(n uint32) Length { return Length{Kind: Division, N: n} }

func (l Length) String() string {
	switch l.Kind {
	case Multiple:
		return fmt.Sprintf("x%d", l.N)
	case Division:
		return fmt.Sprintf("/%d", l.N)
	default:
		return "unit"
	}
}

// Note is a single pitch (or rest) held for a length.
type Note struct {
	Pitch  PitchOrRest `yaml:"pitch" msgpack:"pitch"`
	Length Length      `yaml:"length" msgpack:"length"`
}

func (n Note) String() string {
	return n.Pitch.String() + " " + n.Length.String()
}

// Song is an immutable ordered list of notes.
type Song struct {
	title string
	notes []Note
}

// NewSong copies notes so later changes to the caller's slice are not observed.
func NewSong(title string, notes []Note) Song {
	cp := make([]Note, len(notes))
	copy(cp, notes)
	return Song{title: title, notes: cp}
}

func (s Song) Title() string { return s.title }
func (s Song) Len() int      { return len(s.notes) }

// At returns the note at i. It panics when i is out of range, like a slice index.
func (s Song) At(i int) Note { return s.notes[i] }

// Notes returns a copy of the note list.
func (s Song) Notes() []Note {
	cp := make([]Note, len(s.notes))
	copy(cp, s.notes)
	return cp
}

func (s Song) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q [", s.title)
	for i, n := range s.notes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.String())
	}
	b.WriteString("]")
	return b.String()
}
