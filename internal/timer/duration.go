package timer

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnrepresentableFrequency is returned when a frequency cannot be expressed
// as a 16-bit tick count under any supported prescaler.
var ErrUnrepresentableFrequency = errors.New("unrepresentable frequency")

// ErrInvalidDutyFraction is returned for a duty fraction outside [0, 1].
var ErrInvalidDutyFraction = errors.New("duty fraction must be within [0, 1]")

// DefaultDutyFraction drives the buzzer with short pulses rather than a 50%
// square wave.
const DefaultDutyFraction = 0.01

// DefaultClockRate is the ATmega328P system clock.
const DefaultClockRate = 16_000_000

const (
	maxTicks      = math.MaxUint16
	prescaleStep  = 8
	maxPrescaleUp = 4
)

// Prescaler divides the timer clock before it reaches the counter.
type Prescaler uint16

const (
	Prescale1    Prescaler = 1
	Prescale8    Prescaler = 8
	Prescale64   Prescaler = 64
	Prescale256  Prescaler = 256
	Prescale1024 Prescaler = 1024
)

// Valid reports whether p is one of the dividers the hardware offers.
func (p Prescaler) Valid() bool {
	switch p {
	case Prescale1, Prescale8, Prescale64, Prescale256, Prescale1024:
		return true
	}
	return false
}

// Duration is a tick count at a prescaler.
type Duration struct {
	Ticks     uint16
	Prescaler Prescaler
}

// TotalTicks is the duration in undivided clock ticks.
func (d Duration) TotalTicks() uint32 {
	return uint32(d.Ticks) * uint32(d.Prescaler)
}

// Seconds converts the duration to seconds at the given clock rate.
func (d Duration) Seconds(clockRate float64) float64 {
	return float64(d.TotalTicks()) / clockRate
}

func (d Duration) String() string {
	return fmt.Sprintf("Duration{ticks: %d, prescale: %d}", d.Ticks, d.Prescaler)
}

// FromTicks scales a raw tick count down by powers of eight until it fits in
// 16 bits.
func FromTicks(ticks uint64) (Duration, error) {
	count := ticks
	prescale := uint64(1)
	for step := 0; count > maxTicks && step < maxPrescaleUp; step++ {
		count /= prescaleStep
		prescale *= prescaleStep
	}
	p := Prescaler(prescale)
	if count > maxTicks || prescale > math.MaxUint16 || !p.Valid() {
		return Duration{}, fmt.Errorf("%w: %d ticks", ErrUnrepresentableFrequency, ticks)
	}
	return Duration{Ticks: uint16(count), Prescaler: p}, nil
}

// Durations holds the two halves of one output period.
type Durations struct {
	Active   Duration
	Inactive Duration
}

// Period is the represented length of one full cycle in seconds.
func (d Durations) Period(clockRate float64) float64 {
	return d.Active.Seconds(clockRate) + d.Inactive.Seconds(clockRate)
}

func (d Durations) String() string {
	return fmt.Sprintf("Durations{active: %v, inactive: %v}", d.Active, d.Inactive)
}

// Solve splits one period of frequency into an active and an inactive timer
// duration. dutyFraction is the share of the period the output is held high.
func Solve(frequency, clockRate, dutyFraction float64) (Durations, error) {
	if math.IsNaN(dutyFraction) || dutyFraction < 0 || dutyFraction > 1 {
		return Durations{}, fmt.Errorf("%w: %v", ErrInvalidDutyFraction, dutyFraction)
	}
	if math.IsNaN(frequency) || math.IsInf(frequency, 0) || frequency <= 0 {
		return Durations{}, fmt.Errorf("%w: %v Hz", ErrUnrepresentableFrequency, frequency)
	}
	raw := clockRate / frequency
	if raw < 1 || raw >= math.MaxUint64 {
		return Durations{}, fmt.Errorf("%w: %v Hz at %v Hz clock", ErrUnrepresentableFrequency, frequency, clockRate)
	}
	period := uint64(raw)
	activeTicks := uint64(float64(period) * dutyFraction)
	inactiveTicks := period - activeTicks

	active, err := FromTicks(activeTicks)
	if err != nil {
		return Durations{}, fmt.Errorf("active half of %v Hz: %w", frequency, err)
	}
	inactive, err := FromTicks(inactiveTicks)
	if err != nil {
		return Durations{}, fmt.Errorf("inactive half of %v Hz: %w", frequency, err)
	}
	return Durations{Active: active, Inactive: inactive}, nil
}
