package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/cbegin/ardsound-go/internal/sequencer"
	"github.com/cbegin/ardsound-go/internal/timer"
)

var inspectDump bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <song>",
	Short: "Show a song's notes with frequencies, durations and timer settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, tempo, err := loadSong(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if inspectDump {
			cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
			cfg.Fdump(out, loaded.Headers, loaded.Song.Notes())
		}

		fmt.Fprintf(out, "title: %q\ntempo: %g BPM (unit %gs)\nplaytime: %gs\n\n",
			loaded.Song.Title(), float64(tempo), tempo.UnitSeconds(), loaded.Song.TotalPlaytime(tempo))
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tnote\tHz\tseconds\ttimer")
		clock, duty := globalConfig.Timer.ClockRate, globalConfig.Timer.DutyFraction
		seq := sequencer.New(loaded.Song, tempo)
		for {
			st, ok := seq.Next()
			if !ok {
				break
			}
			hz, timing := "-", "silence"
			if st.Pitched {
				hz = fmt.Sprintf("%.2f", st.Frequency)
				if d, err := timer.Solve(st.Frequency, clock, duty); err != nil {
					timing = err.Error()
				} else {
					timing = d.String()
				}
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%s\n", st.Index, st.Note, hz, st.Seconds, timing)
		}
		return tw.Flush()
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "also dump the decoded structures")
	rootCmd.AddCommand(inspectCmd)
}
