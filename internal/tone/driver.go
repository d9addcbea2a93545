package tone

import (
	"github.com/cbegin/ardsound-go/internal/timer"
)

// Mode is the externally visible driver state.
type Mode int

const (
	Disabled Mode = iota
	Active
	Inactive
)

func (m Mode) String() string {
	switch m {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return "disabled"
	}
}

// AudioState is the half of the period currently being timed plus the
// durations of both halves.
type AudioState struct {
	Active    bool
	Durations timer.Durations
}

type Config struct {
	// ClockRate is the undivided timer clock in Hz.
	ClockRate float64
	// DutyFraction is the share of each period the pin is held high.
	DutyFraction float64
}

func DefaultConfig() Config {
	return Config{ClockRate: timer.DefaultClockRate, DutyFraction: timer.DefaultDutyFraction}
}

// Driver toggles a pin between an active and an inactive duration using a
// compare-match interrupt.
//
// The driver is the single owner of the audio state slot. The slot is read
// and written only between Interrupts.Disable and Interrupts.Restore, by
// exactly two parties: the control path (SetFrequency, Disable, Mode) and
// HandleCompareMatch. Critical sections cover register writes and the slot,
// never the duration arithmetic.
type Driver struct {
	hw        Hardware
	clockRate float64
	duty      float64

	// guarded by hw.Interrupts
	present bool
	slot    AudioState
}

func NewDriver(hw Hardware, cfg Config) *Driver {
	if cfg.ClockRate <= 0 {
		cfg.ClockRate = timer.DefaultClockRate
	}
	return &Driver{hw: hw, clockRate: cfg.ClockRate, duty: cfg.DutyFraction}
}

// Setup configures the timer for compare interrupts. It may be called any
// number of times.
func (d *Driver) Setup() {
	d.hw.Timer.ConfigureCompare()
}

// SetFrequency starts (or retunes) the output at frequency Hz, beginning with
// the active half. An unrepresentable frequency leaves the driver untouched.
func (d *Driver) SetFrequency(frequency float64) error {
	durations, err := timer.Solve(frequency, d.clockRate, d.duty)
	if err != nil {
		return err
	}

	st := d.hw.Interrupts.Disable()
	d.program(durations.Active)
	d.hw.Pin.High()
	d.slot = AudioState{Active: true, Durations: durations}
	d.present = true
	d.hw.Interrupts.Restore(st)
	return nil
}

// Disable stops the timer and clears the audio state. Once it returns the
// handler is a no-op until the next SetFrequency.
func (d *Driver) Disable() {
	st := d.hw.Interrupts.Disable()
	d.present = false
	d.slot = AudioState{}
	d.hw.Timer.Stop()
	d.hw.Timer.SetCounter(0)
	d.hw.Timer.SetCompare(0)
	d.hw.Pin.Low()
	d.hw.Interrupts.Restore(st)
}

// HandleCompareMatch is the compare-match interrupt handler. It flips between
// the active and inactive half and times the new half with its own duration.
func (d *Driver) HandleCompareMatch() {
	st := d.hw.Interrupts.Disable()
	state, ok := d.slot, d.present
	d.present = false
	d.hw.Interrupts.Restore(st)
	if !ok {
		return
	}

	state.Active = !state.Active
	if state.Active {
		d.program(state.Durations.Active)
		d.hw.Pin.High()
	} else {
		d.program(state.Durations.Inactive)
		d.hw.Pin.Low()
	}

	st = d.hw.Interrupts.Disable()
	d.slot = state
	d.present = true
	d.hw.Interrupts.Restore(st)
}

// Mode reports which half is being timed, or Disabled.
func (d *Driver) Mode() Mode {
	st := d.hw.Interrupts.Disable()
	present, active := d.present, d.slot.Active
	d.hw.Interrupts.Restore(st)
	switch {
	case !present:
		return Disabled
	case active:
		return Active
	default:
		return Inactive
	}
}

// State returns a copy of the current audio state, if any.
func (d *Driver) State() (AudioState, bool) {
	st := d.hw.Interrupts.Disable()
	s, ok := d.slot, d.present
	d.hw.Interrupts.Restore(st)
	return s, ok
}

func (d *Driver) program(dur timer.Duration) {
	d.hw.Timer.SetCounter(0)
	d.hw.Timer.SetCompare(dur.Ticks)
	d.hw.Timer.Start(dur.Prescaler)
}
