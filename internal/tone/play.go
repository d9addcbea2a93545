package tone

import (
	"context"
	"time"

	"github.com/cbegin/ardsound-go/internal/sequencer"
)

// NoteFunc observes each note as playback reaches it. err is the reason a
// pitched note fell back to silence, or nil.
type NoteFunc func(step sequencer.Step, err error)

// PlaySong plays every remaining note of seq through d, holding each for its
// duration with sleep. A note whose frequency the timer cannot represent is
// played as silence; playback continues with the next note. The driver is
// disabled when PlaySong returns.
func PlaySong(ctx context.Context, seq *sequencer.Sequencer, d *Driver, sleep func(time.Duration), onNote NoteFunc) error {
	d.Setup()
	defer d.Disable()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		step, ok := seq.Next()
		if !ok {
			return nil
		}
		var err error
		if step.Pitched {
			if err = d.SetFrequency(step.Frequency); err != nil {
				d.Disable()
			}
		} else {
			d.Disable()
		}
		if onNote != nil {
			onNote(step, err)
		}
		sleep(time.Duration(step.Seconds * float64(time.Second)))
	}
}
