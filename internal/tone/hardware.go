package tone

import "github.com/cbegin/ardsound-go/internal/timer"

// Timer is a 16-bit counter with one compare channel.
type Timer interface {
	// ConfigureCompare selects clear-on-compare mode and enables the
	// compare-match interrupt. Repeated calls leave the same configuration.
	ConfigureCompare()
	SetCounter(v uint16)
	SetCompare(v uint16)
	// Start clocks the counter from the system clock divided by p.
	Start(p timer.Prescaler)
	// Stop disconnects the clock; the counter holds its value.
	Stop()
}

// Pin is the digital output driving the buzzer.
type Pin interface {
	High()
	Low()
}

// State is the interrupt-enable state saved by Interrupts.Disable.
type State uintptr

// Interrupts masks interrupts globally, the way a microcontroller's global
// interrupt flag does:
//
//   - after Disable returns, the compare-match handler cannot start until the
//     saved state is restored; a match that occurs meanwhile is delivered on
//     Restore;
//   - Disable/Restore pairs nest: Restore puts back exactly the state the
//     matching Disable saw;
//   - the compare-match handler itself runs with interrupts masked and is
//     never preempted by the control path.
type Interrupts interface {
	Disable() State
	Restore(s State)
}

// Hardware is the set of peripherals the driver owns.
type Hardware struct {
	Timer      Timer
	Pin        Pin
	Interrupts Interrupts
}
