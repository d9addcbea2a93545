//go:build tinygo && avr

package tone

import (
	"device/avr"
	"machine"
	"runtime/interrupt"

	"github.com/cbegin/ardsound-go/internal/timer"
)

// timer1 drives the ATmega328P Timer1 in CTC mode on compare channel A.
type timer1 struct{}

func (timer1) ConfigureCompare() {
	avr.TCCR1A.Set(0)
	avr.TCCR1B.Set(avr.TCCR1B_WGM12)
	avr.TIMSK1.SetBits(avr.TIMSK1_OCIE1A)
}

// 16-bit registers are written high byte first.
func (timer1) SetCounter(v uint16) {
	avr.TCNT1H.Set(uint8(v >> 8))
	avr.TCNT1L.Set(uint8(v))
}

func (timer1) SetCompare(v uint16) {
	avr.OCR1AH.Set(uint8(v >> 8))
	avr.OCR1AL.Set(uint8(v))
}

func (timer1) Start(p timer.Prescaler) {
	avr.TCCR1B.Set(avr.TCCR1B_WGM12 | clockSelect(p))
}

func (timer1) Stop() {
	avr.TCCR1B.Set(avr.TCCR1B_WGM12)
}

func clockSelect(p timer.Prescaler) uint8 {
	switch p {
	case timer.Prescale8:
		return avr.TCCR1B_CS11
	case timer.Prescale64:
		return avr.TCCR1B_CS11 | avr.TCCR1B_CS10
	case timer.Prescale256:
		return avr.TCCR1B_CS12
	case timer.Prescale1024:
		return avr.TCCR1B_CS12 | avr.TCCR1B_CS10
	default:
		return avr.TCCR1B_CS10
	}
}

type globalInterrupts struct{}

func (globalInterrupts) Disable() State  { return State(interrupt.Disable()) }
func (globalInterrupts) Restore(s State) { interrupt.Restore(interrupt.State(s)) }

// AVRHardware configures pin as an output and pairs it with Timer1.
func AVRHardware(pin machine.Pin) Hardware {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return Hardware{Timer: timer1{}, Pin: pin, Interrupts: globalInterrupts{}}
}

// compareDriver receives TIMER1_COMPA. The vector is fixed at link time, so
// the binding is package-level; BindAVR is called once before Setup.
var compareDriver *Driver

// BindAVR routes the Timer1 compare-match A interrupt to d.
func BindAVR(d *Driver) {
	st := interrupt.Disable()
	compareDriver = d
	interrupt.Restore(st)
	interrupt.New(avr.IRQ_TIMER1_COMPA, handleTimer1CompareA)
}

func handleTimer1CompareA(interrupt.Interrupt) {
	if d := compareDriver; d != nil {
		d.HandleCompareMatch()
	}
}
