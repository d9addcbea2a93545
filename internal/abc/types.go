package abc

import (
	"errors"

	"github.com/cbegin/ardsound-go/internal/note"
)

// ErrSyntax is wrapped by every parse error; the message carries the line and
// column.
var ErrSyntax = errors.New("abc syntax error")

type Version struct {
	Major int
	Minor int
}

// Tune is everything read from one ABC file.
type Tune struct {
	// Version is nil when the file has no usable %abc-x.y line.
	Version *Version
	// Headers holds every information field by key, in file order.
	Headers map[byte][]string
	Song    note.Song
	// Tempo is zero when the tune has no Q: field.
	Tempo note.Tempo
}

// Header returns the first value of an information field.
func (t *Tune) Header(key byte) (string, bool) {
	vals := t.Headers[key]
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

type ParserConfig struct {
	// BaseOctave is the octave of an unmarked note letter.
	BaseOctave int
	// LowercaseOctaveUp makes a-g sound one octave above A-G, as in standard
	// ABC. When false the letter case is ignored and only , and ' move the
	// octave.
	LowercaseOctaveUp bool
}

func DefaultParserConfig() ParserConfig {
	return ParserConfig{}
}
