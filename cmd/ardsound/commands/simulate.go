package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cbegin/ardsound-go/internal/sequencer"
	"github.com/cbegin/ardsound-go/internal/timer"
	"github.com/cbegin/ardsound-go/internal/tone"
)

var (
	simClockRate float64
	simDuty      float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <song>",
	Short: "Play a song through the simulated buzzer timer",
	Long: `Run the buzzer tone driver against a software model of the timer, pin and
interrupt flag. Each note reports the timer durations it programmed and the
frequency measured from the simulated pin edges.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, tempo, err := loadSong(args[0])
		if err != nil {
			return err
		}
		tc := globalConfig.Timer
		if cmd.Flags().Changed("clock-rate") {
			tc.ClockRate = simClockRate
		}
		if cmd.Flags().Changed("duty") {
			tc.DutyFraction = simDuty
		}
		if tc.ClockRate <= 0 {
			return fmt.Errorf("clock rate must be positive, got %v", tc.ClockRate)
		}
		if tc.DutyFraction < 0 || tc.DutyFraction > 1 {
			return fmt.Errorf("duty %v: %w", tc.DutyFraction, timer.ErrInvalidDutyFraction)
		}

		sim := tone.NewSim(tc.ClockRate)
		drv := tone.NewDriver(sim.Hardware(), tone.Config{ClockRate: tc.ClockRate, DutyFraction: tc.DutyFraction})
		sim.Attach(drv.HandleCompareMatch)

		out := cmd.OutOrStdout()
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tnote\ttarget Hz\tmeasured Hz\tstate")

		// report the previous note once its duration has elapsed
		type pending struct {
			step  sequencer.Step
			err   error
			edges int
			mode  tone.Mode
		}
		var last *pending
		flush := func() {
			if last == nil {
				return
			}
			edges := sim.Edges()[last.edges:]
			rising := 0
			for _, e := range edges {
				if e.High && e.At < sim.Now() {
					rising++
				}
			}
			measured := "-"
			if last.step.Seconds > 0 && rising > 0 {
				measured = fmt.Sprintf("%.2f", float64(rising)/last.step.Seconds)
			}
			target, state := "-", last.mode.String()
			if last.step.Pitched {
				target = fmt.Sprintf("%.2f", last.step.Frequency)
			}
			if last.err != nil {
				state = "silenced: " + last.err.Error()
				logger.Warn("note cannot be timed", "index", last.step.Index, "note", last.step.Note.String(), "error", last.err)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", last.step.Index, last.step.Note, target, measured, state)
		}

		err = tone.PlaySong(cmd.Context(), sequencer.New(loaded.Song, tempo), drv, func(d time.Duration) {
			sim.Sleep(d)
			flush()
			last = nil
		}, func(st sequencer.Step, err error) {
			last = &pending{step: st, err: err, edges: len(sim.Edges()), mode: drv.Mode()}
			if s, ok := drv.State(); ok {
				logger.Debug("note", "index", st.Index, "note", st.Note.String(), "durations", s.Durations.String())
			}
		})
		if err != nil {
			return err
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nsimulated %.3fs, %d compare matches, %d pin edges\n",
			float64(sim.Now())/tc.ClockRate, sim.Matches(), len(sim.Edges()))
		return nil
	},
}

func init() {
	simulateCmd.Flags().Float64Var(&simClockRate, "clock-rate", 16_000_000, "timer clock in Hz")
	simulateCmd.Flags().Float64Var(&simDuty, "duty", 0.01, "fraction of each period the pin is high")
	rootCmd.AddCommand(simulateCmd)
}
