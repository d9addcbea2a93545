// Package main is the ardsound command line.
//
// Usage:
//
//	ardsound [flags] <command> [args]
//
// Commands:
//
//	play      - Play a song on the audio device
//	render    - Render a song to raw PCM or WAV
//	export    - Export a song as a C header, Go source or msgpack
//	inspect   - Dump a parsed song with frequencies and timer settings
//	simulate  - Run a song through the simulated buzzer timer
package main

import (
	"fmt"
	"os"

	"github.com/cbegin/ardsound-go/cmd/ardsound/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
