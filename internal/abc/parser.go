package abc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cbegin/ardsound-go/internal/note"
)

const versionPrefix = "%abc"

type Parser struct{ cfg ParserConfig }

func NewParser(cfg ParserConfig) *Parser { return &Parser{cfg: cfg} }

// Parse reads a single tune. Information fields (X:, T:, Q:, K: ...) may appear
// on any line; every other non-comment line is note body.
func (p *Parser) Parse(input string) (*Tune, error) {
	tune := &Tune{Headers: map[byte][]string{}}
	var notes []note.Note
	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	for n, line := range lines {
		lineNo := n + 1
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, versionPrefix):
			if tune.Version == nil {
				tune.Version = parseVersion(trimmed)
			}
			continue
		case trimmed[0] == '%':
			continue
		case isField(trimmed):
			key := trimmed[0]
			tune.Headers[key] = append(tune.Headers[key], strings.TrimSpace(trimmed[2:]))
			continue
		}
		body, err := p.parseBody(line, lineNo)
		if err != nil {
			return nil, err
		}
		notes = append(notes, body...)
	}

	title, _ := tune.Header('T')
	tune.Song = note.NewSong(title, notes)
	if q, ok := tune.Header('Q'); ok {
		bpm, err := parseTempo(q)
		if err != nil {
			return nil, err
		}
		tune.Tempo = bpm
	}
	return tune, nil
}

// ParseNotes reads note body text only, with no information fields.
func (p *Parser) ParseNotes(body string) ([]note.Note, error) {
	var notes []note.Note
	for n, line := range strings.Split(body, "\n") {
		parsed, err := p.parseBody(strings.TrimRight(line, "\r"), n+1)
		if err != nil {
			return nil, err
		}
		notes = append(notes, parsed...)
	}
	return notes, nil
}

func isField(line string) bool {
	if len(line) < 2 || line[1] != ':' {
		return false
	}
	c := line[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// parseVersion reads "%abc-2.1". A malformed version is treated as absent.
func parseVersion(line string) *Version {
	rest := strings.TrimPrefix(line, versionPrefix)
	rest = strings.TrimPrefix(rest, "-")
	major, minor, ok := strings.Cut(strings.TrimSpace(rest), ".")
	if !ok {
		return nil
	}
	maj, err1 := strconv.Atoi(major)
	mnr, err2 := strconv.Atoi(minor)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &Version{Major: maj, Minor: mnr}
}

// parseTempo accepts "120" and "1/4=120".
func parseTempo(q string) (note.Tempo, error) {
	val := q
	if _, after, ok := strings.Cut(q, "="); ok {
		val = after
	}
	bpm, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || bpm <= 0 || math.IsInf(bpm, 0) {
		return 0, fmt.Errorf("%w: invalid tempo %q", ErrSyntax, q)
	}
	return note.Tempo(bpm), nil
}

func (p *Parser) parseBody(line string, lineNo int) ([]note.Note, error) {
	var notes []note.Note
	i := 0
	for i < len(line) {
		ch := line[i]
		switch {
		case ch == '%':
			return notes, nil
		case isSkipped(ch):
			i++
		case ch == '"':
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				return nil, syntaxErr(lineNo, i, "unterminated annotation")
			}
			i += end + 2
		case isAccidental(ch) || isNoteLetter(ch) || isRest(ch):
			n, next, err := p.parseNote(line, i, lineNo)
			if err != nil {
				return nil, err
			}
			notes = append(notes, n)
			i = next
		default:
			return nil, syntaxErr(lineNo, i, "unexpected %q", ch)
		}
	}
	return notes, nil
}

func (p *Parser) parseNote(s string, at, lineNo int) (note.Note, int, error) {
	i := at
	var shift int
	for i < len(s) && isAccidental(s[i]) {
		switch s[i] {
		case '^':
			shift++
		case '_':
			shift--
		}
		i++
	}
	if i >= len(s) {
		return note.Note{}, i, syntaxErr(lineNo, i, "accidental without a note")
	}

	var pitch note.PitchOrRest
	switch ch := s[i]; {
	case isRest(ch):
		if shift != 0 || i != at {
			return note.Note{}, i, syntaxErr(lineNo, at, "accidental on a rest")
		}
		pitch = note.Rest
		i++
	case isNoteLetter(ch):
		class, _ := note.PitchClassFromLetter(ch)
		for ; shift > 0; shift-- {
			class = class.HalfStepUp()
		}
		for ; shift < 0; shift++ {
			class = class.HalfStepDown()
		}
		octave := p.cfg.BaseOctave
		if p.cfg.LowercaseOctaveUp && ch >= 'a' {
			octave++
		}
		i++
		for i < len(s) && (s[i] == ',' || s[i] == '\'') {
			if s[i] == ',' {
				octave--
			} else {
				octave++
			}
			i++
		}
		pitch = note.Pitch(class, octave)
	default:
		return note.Note{}, i, syntaxErr(lineNo, i, "expected a note after accidental, got %q", ch)
	}

	length, next, err := parseLength(s, i, lineNo)
	if err != nil {
		return note.Note{}, i, err
	}
	return note.Note{Pitch: pitch, Length: length}, next, nil
}

// parseLength reads the optional length suffix: "" is one unit, "n" is n
// units, "/n" is 1/n of a unit, and each bare slash halves ("/" is /2, "//" is
// /4).
func parseLength(s string, at, lineNo int) (note.Length, int, error) {
	i := at
	num, i, hasNum, err := parseNumber(s, i, lineNo)
	if err != nil {
		return note.Length{}, at, err
	}
	if i >= len(s) || s[i] != '/' {
		if !hasNum {
			return note.UnitLength(), i, nil
		}
		if num == 0 {
			return note.Length{}, at, syntaxErr(lineNo, at, "zero length")
		}
		return note.MultipleOf(num), i, nil
	}
	if hasNum {
		return note.Length{}, at, syntaxErr(lineNo, at, "fractional lengths like n/m are not supported")
	}

	slashes := 0
	for i < len(s) && s[i] == '/' {
		slashes++
		i++
	}
	div, next, hasDiv, err := parseNumber(s, i, lineNo)
	if err != nil {
		return note.Length{}, at, err
	}
	switch {
	case hasDiv && slashes > 1:
		return note.Length{}, at, syntaxErr(lineNo, at, "divisor after multiple slashes")
	case hasDiv && div == 0:
		return note.Length{}, at, syntaxErr(lineNo, at, "division by zero")
	case hasDiv:
		return note.DivisionOf(div), next, nil
	case slashes > 31:
		return note.Length{}, at, syntaxErr(lineNo, at, "too many slashes")
	default:
		return note.DivisionOf(1 << slashes), next, nil
	}
}

func parseNumber(s string, at, lineNo int) (uint32, int, bool, error) {
	i := at
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == at {
		return 0, at, false, nil
	}
	v, err := strconv.ParseUint(s[at:i], 10, 32)
	if err != nil {
		return 0, at, false, syntaxErr(lineNo, at, "length %q out of range", s[at:i])
	}
	return uint32(v), i, true, nil
}

func syntaxErr(line, idx int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d col %d: %s", ErrSyntax, line, idx+1, fmt.Sprintf(format, args...))
}

func isAccidental(ch byte) bool { return ch == '^' || ch == '_' || ch == '=' }
func isRest(ch byte) bool       { return ch == 'z' || ch == 'Z' || ch == 'x' }

func isNoteLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'G') || (ch >= 'a' && ch <= 'g')
}

// isSkipped covers whitespace, bar lines, repeats and slurs, which carry no
// pitch or length.
func isSkipped(ch byte) bool {
	switch ch {
	case ' ', '\t', '|', ':', '[', ']', '\\', '(', ')', '-':
		return true
	}
	return false
}
