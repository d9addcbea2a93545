//go:build tinygo && avr

// Command buzzer is the firmware for an Arduino Uno with a piezo buzzer on
// D5. It loops the song compiled into song_gen.go and reports each note on
// the serial port.
//
// Regenerate the song with:
//
//	ardsound export -f go --tags "tinygo && avr" -o cmd/buzzer/song_gen.go song.abc
//
// Build and flash with:
//
//	tinygo flash -target arduino ./cmd/buzzer
package main

import (
	"context"
	"machine"
	"time"

	"github.com/cbegin/ardsound-go/internal/sequencer"
	"github.com/cbegin/ardsound-go/internal/tone"
)

const buzzerPin = machine.D5

func main() {
	machine.Serial.Configure(machine.UARTConfig{BaudRate: 57600})

	drv := tone.NewDriver(tone.AVRHardware(buzzerPin), tone.DefaultConfig())
	tone.BindAVR(drv)
	drv.Setup()

	println("ardsound buzzer ready")
	for {
		err := tone.PlaySong(context.Background(), sequencer.New(song, songTempo), drv, time.Sleep, report)
		if err != nil {
			println("playback stopped:", err.Error())
		}
		time.Sleep(time.Second)
	}
}

func report(st sequencer.Step, err error) {
	switch {
	case err != nil:
		println(st.Index, "silenced:", err.Error())
	case !st.Pitched:
		println(st.Index, "rest")
	default:
		println(st.Index, int(st.Frequency), "Hz")
	}
}
