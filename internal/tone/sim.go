package tone

import (
	"time"

	"github.com/cbegin/ardsound-go/internal/timer"
)

// Edge is a recorded pin transition.
type Edge struct {
	// At is the system clock tick of the transition.
	At   uint64
	High bool
}

// Sim is a deterministic software model of a 16-bit compare timer, an output
// pin and a global interrupt flag. Time only moves in Advance, so a handler
// runs either at a compare match inside Advance or when Restore re-enables
// interrupts with a match pending.
type Sim struct {
	clockRate float64
	handler   func()

	now        uint64
	counter    uint16
	compare    uint16
	prescaler  timer.Prescaler // zero while stopped
	prescaled  uint64          // clock ticks accumulated toward the next count
	configured bool
	irqEnabled bool

	enabled bool
	pending bool

	pinHigh bool
	edges   []Edge
	matches int
}

func NewSim(clockRate float64) *Sim {
	return &Sim{clockRate: clockRate, enabled: true}
}

// Hardware returns the sim wired as every peripheral.
func (s *Sim) Hardware() Hardware {
	return Hardware{Timer: s, Pin: s, Interrupts: s}
}

// Attach installs the compare-match handler.
func (s *Sim) Attach(handler func()) { s.handler = handler }

func (s *Sim) ConfigureCompare() {
	s.configured = true
	s.irqEnabled = true
}

func (s *Sim) SetCounter(v uint16) {
	s.counter = v
	s.prescaled = 0
}

func (s *Sim) SetCompare(v uint16)     { s.compare = v }
func (s *Sim) Start(p timer.Prescaler) { s.prescaler = p }
func (s *Sim) Stop()                   { s.prescaler = 0 }

func (s *Sim) High() {
	if !s.pinHigh {
		s.pinHigh = true
		s.edges = append(s.edges, Edge{At: s.now, High: true})
	}
}

func (s *Sim) Low() {
	if s.pinHigh {
		s.pinHigh = false
		s.edges = append(s.edges, Edge{At: s.now, High: false})
	}
}

func (s *Sim) Disable() State {
	prev := State(0)
	if s.enabled {
		prev = 1
	}
	s.enabled = false
	return prev
}

func (s *Sim) Restore(st State) {
	s.enabled = st != 0
	if s.enabled && s.pending {
		s.deliver()
	}
}

// Advance runs the system clock forward by ticks, delivering compare matches
// as they occur.
func (s *Sim) Advance(ticks uint64) {
	end := s.now + ticks
	for s.now < end {
		if s.prescaler == 0 {
			s.now = end
			return
		}
		p := uint64(s.prescaler)
		target := uint64(s.compare)
		if target == 0 {
			target = 1
		}
		counts := target - uint64(s.counter)
		if uint64(s.counter) >= target {
			// counter is past compare: it wraps at 16 bits first
			counts = (1 << 16) - uint64(s.counter) + target
		}
		need := counts*p - s.prescaled
		if s.now+need > end {
			total := s.prescaled + (end - s.now)
			s.counter += uint16(total / p)
			s.prescaled = total % p
			s.now = end
			return
		}
		s.now += need
		s.counter = 0
		s.prescaled = 0
		s.match()
	}
}

// Sleep advances the clock by d; it stands in for a delay on the main loop.
func (s *Sim) Sleep(d time.Duration) {
	s.Advance(uint64(d.Seconds() * s.clockRate))
}

func (s *Sim) match() {
	s.matches++
	if !s.irqEnabled || s.handler == nil {
		return
	}
	if !s.enabled {
		s.pending = true
		return
	}
	s.deliver()
}

func (s *Sim) deliver() {
	s.pending = false
	s.enabled = false
	s.handler()
	s.enabled = true
}

func (s *Sim) Now() uint64                { return s.now }
func (s *Sim) Counter() uint16            { return s.counter }
func (s *Sim) Compare() uint16            { return s.compare }
func (s *Sim) Prescaler() timer.Prescaler { return s.prescaler }
func (s *Sim) Running() bool              { return s.prescaler != 0 }
func (s *Sim) Configured() bool           { return s.configured }
func (s *Sim) PinHigh() bool              { return s.pinHigh }
func (s *Sim) InterruptsEnabled() bool    { return s.enabled }
func (s *Sim) Pending() bool              { return s.pending }
func (s *Sim) Matches() int               { return s.matches }

// Edges returns the recorded pin transitions.
func (s *Sim) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}
