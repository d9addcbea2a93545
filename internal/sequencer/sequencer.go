package sequencer

import (
	"github.com/cbegin/ardsound-go/internal/note"
)

// DefaultQuantumRate is the number of Advance quanta per second when Options
// leaves it unset.
const DefaultQuantumRate = 44100

// Step is one whole note as seen by the embedded backend.
type Step struct {
	Index     int
	Note      note.Note
	Frequency float64
	Pitched   bool
	Seconds   float64
}

// RenderState describes the quantum just consumed by Advance.
type RenderState struct {
	Frequency float64
	Pitched   bool
	// NewNote is set on the first quantum of a note.
	NewNote bool
	// Remaining is 1 - elapsed/total for the active note, measured at the
	// start of the quantum.
	Remaining float64
	// Done is set once every note has been consumed.
	Done bool
}

// Position is the cursor into the song.
type Position struct {
	NoteIndex int
	// Elapsed is measured in quanta within the current note.
	Elapsed float64
}

type Options struct {
	// QuantumRate is the number of Advance calls per second of song time
	// (the sample rate for the host renderer).
	QuantumRate float64
	// OnNote fires when a note becomes active. It runs on the caller of
	// Advance or Next; keep it short when that is an audio callback.
	OnNote func(Step)
	// OnEnd fires once when the cursor moves past the last note.
	OnEnd func()
}

// Sequencer walks a song one note (Next) or one quantum (Advance) at a time.
// It is not safe for concurrent use; the renderer that owns it is the only
// mutator.
type Sequencer struct {
	song        note.Song
	unitSeconds float64
	quantumRate float64
	onNote      func(Step)
	onEnd       func()

	index   int
	elapsed float64
	fresh   bool
	ended   bool

	// cached resolution of song.At(cachedIndex)
	cachedIndex int
	cached      Step
	cachedTotal float64
}

func New(song note.Song, tempo note.Tempo) *Sequencer {
	return NewWithOptions(song, tempo, Options{})
}

func NewWithOptions(song note.Song, tempo note.Tempo, opts Options) *Sequencer {
	rate := opts.QuantumRate
	if rate <= 0 {
		rate = DefaultQuantumRate
	}
	return &Sequencer{
		song:        song,
		unitSeconds: tempo.UnitSeconds(),
		quantumRate: rate,
		onNote:      opts.OnNote,
		onEnd:       opts.OnEnd,
		fresh:       true,
		cachedIndex: -1,
	}
}

// Next returns the active note and moves the cursor to the following one.
// The caller holds the note for Step.Seconds before calling again.
func (s *Sequencer) Next() (Step, bool) {
	if s.index >= s.song.Len() {
		s.finish()
		return Step{}, false
	}
	st := s.resolve(s.index)
	if s.onNote != nil {
		s.onNote(st)
	}
	s.index++
	s.elapsed = 0
	s.fresh = true
	if s.index >= s.song.Len() {
		s.finish()
	}
	return st, true
}

// Advance consumes one quantum of the active note. A note ends once its
// elapsed quanta reach its total; the overflow carries into the next note so
// note boundaries that fall between quanta do not drift.
func (s *Sequencer) Advance() RenderState {
	s.settle()
	if s.index >= s.song.Len() {
		s.finish()
		return RenderState{Done: true}
	}
	st := s.resolve(s.index)
	rs := RenderState{
		Frequency: st.Frequency,
		Pitched:   st.Pitched,
		NewNote:   s.fresh,
		Remaining: 1 - s.elapsed/s.cachedTotal,
	}
	if s.fresh && s.onNote != nil {
		s.onNote(st)
	}
	s.fresh = false
	s.elapsed++
	s.settle()
	return rs
}

// Done reports whether every note has been consumed.
func (s *Sequencer) Done() bool {
	return s.index >= s.song.Len()
}

func (s *Sequencer) Position() Position {
	return Position{NoteIndex: s.index, Elapsed: s.elapsed}
}

// settle moves past every note whose total the elapsed count has reached,
// including zero-length notes.
func (s *Sequencer) settle() {
	for s.index < s.song.Len() {
		s.resolve(s.index)
		if s.elapsed < s.cachedTotal {
			return
		}
		s.elapsed -= s.cachedTotal
		s.index++
		s.fresh = true
	}
	s.finish()
}

func (s *Sequencer) finish() {
	if s.ended {
		return
	}
	s.ended = true
	if s.onEnd != nil {
		s.onEnd()
	}
}

func (s *Sequencer) resolve(i int) Step {
	if s.cachedIndex == i {
		return s.cached
	}
	n := s.song.At(i)
	freq, pitched := note.Frequency(n.Pitch)
	secs := note.DurationSeconds(n.Length, s.unitSeconds)
	s.cachedIndex = i
	s.cached = Step{Index: i, Note: n, Frequency: freq, Pitched: pitched, Seconds: secs}
	s.cachedTotal = secs * s.quantumRate
	return s.cached
}
