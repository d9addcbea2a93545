package tone

import (
	"context"
	"errors"
	"testing"

	"github.com/cbegin/ardsound-go/internal/note"
	"github.com/cbegin/ardsound-go/internal/sequencer"
	"github.com/cbegin/ardsound-go/internal/timer"
)

const testClock = 16_000_000

func newSimDriver(t *testing.T) (*Sim, *Driver) {
	t.Helper()
	sim := NewSim(testClock)
	drv := NewDriver(sim.Hardware(), DefaultConfig())
	sim.Attach(drv.HandleCompareMatch)
	drv.Setup()
	return sim, drv
}

func TestSetupIsIdempotent(t *testing.T) {
	sim, drv := newSimDriver(t)
	drv.Setup()
	drv.Setup()
	if !sim.Configured() {
		t.Fatalf("timer not configured")
	}
	if drv.Mode() != Disabled {
		t.Fatalf("mode after setup = %v, want disabled", drv.Mode())
	}
}

func TestSetFrequencyStartsActiveHalf(t *testing.T) {
	sim, drv := newSimDriver(t)
	if err := drv.SetFrequency(440); err != nil {
		t.Fatalf("set frequency: %v", err)
	}
	want, _ := timer.Solve(440, testClock, timer.DefaultDutyFraction)
	if drv.Mode() != Active {
		t.Fatalf("mode = %v, want active", drv.Mode())
	}
	if !sim.PinHigh() {
		t.Fatalf("pin should be high in the active half")
	}
	if sim.Compare() != want.Active.Ticks || sim.Prescaler() != want.Active.Prescaler || sim.Counter() != 0 {
		t.Fatalf("registers = compare %d prescale %d counter %d, want %v", sim.Compare(), sim.Prescaler(), sim.Counter(), want.Active)
	}
	if !sim.InterruptsEnabled() {
		t.Fatalf("interrupts left masked after SetFrequency")
	}
}

func TestHandlerProgramsEachHalfWithItsOwnDuration(t *testing.T) {
	sim, drv := newSimDriver(t)
	// at 30 Hz the inactive half needs prescaler 64 while the active half
	// runs at 1, so a swapped duration shows in the prescaler too
	if err := drv.SetFrequency(30); err != nil {
		t.Fatalf("set frequency: %v", err)
	}
	want, _ := timer.Solve(30, testClock, timer.DefaultDutyFraction)
	if want.Active.Prescaler == want.Inactive.Prescaler {
		t.Fatalf("test needs halves with different prescalers, got %v", want)
	}

	drv.HandleCompareMatch()
	if drv.Mode() != Inactive || sim.PinHigh() {
		t.Fatalf("after first match: mode %v pin %v, want inactive/low", drv.Mode(), sim.PinHigh())
	}
	if sim.Compare() != want.Inactive.Ticks || sim.Prescaler() != want.Inactive.Prescaler {
		t.Fatalf("inactive half programmed %d@%d, want %v", sim.Compare(), sim.Prescaler(), want.Inactive)
	}

	drv.HandleCompareMatch()
	if drv.Mode() != Active || !sim.PinHigh() {
		t.Fatalf("after second match: mode %v pin %v, want active/high", drv.Mode(), sim.PinHigh())
	}
	if sim.Compare() != want.Active.Ticks || sim.Prescaler() != want.Active.Prescaler {
		t.Fatalf("active half programmed %d@%d, want %v", sim.Compare(), sim.Prescaler(), want.Active)
	}
}

func TestSimulatedWaveformPeriod(t *testing.T) {
	sim, drv := newSimDriver(t)
	if err := drv.SetFrequency(440); err != nil {
		t.Fatalf("set frequency: %v", err)
	}
	want, _ := timer.Solve(440, testClock, timer.DefaultDutyFraction)
	sim.Advance(testClock / 10)

	edges := sim.Edges()
	if len(edges) < 80 {
		t.Fatalf("got %d edges in 100 ms, want about 88", len(edges))
	}
	for i := 1; i+1 < len(edges); i++ {
		gap := edges[i+1].At - edges[i].At
		var expect uint32
		if edges[i].High {
			expect = want.Active.TotalTicks()
		} else {
			expect = want.Inactive.TotalTicks()
		}
		if gap != uint64(expect) {
			t.Fatalf("edge %d (high=%v) lasted %d ticks, want %d", i, edges[i].High, gap, expect)
		}
	}
}

func TestDisableClearsStateAndRegisters(t *testing.T) {
	sim, drv := newSimDriver(t)
	if err := drv.SetFrequency(880); err != nil {
		t.Fatalf("set frequency: %v", err)
	}
	sim.Advance(10_000)
	drv.Disable()
	if drv.Mode() != Disabled {
		t.Fatalf("mode = %v, want disabled", drv.Mode())
	}
	if sim.Running() || sim.Counter() != 0 || sim.Compare() != 0 {
		t.Fatalf("timer running=%v counter=%d compare=%d after disable", sim.Running(), sim.Counter(), sim.Compare())
	}
	if _, ok := drv.State(); ok {
		t.Fatalf("audio state still present after disable")
	}
	edges := len(sim.Edges())
	sim.Advance(testClock)
	if len(sim.Edges()) != edges {
		t.Fatalf("pin toggled after disable")
	}
}

func TestHandlerIsNoOpWhenDisabled(t *testing.T) {
	sim, drv := newSimDriver(t)
	drv.HandleCompareMatch()
	if drv.Mode() != Disabled || sim.Running() || len(sim.Edges()) != 0 {
		t.Fatalf("handler changed a disabled driver")
	}
}

func TestMatchWhileMaskedIsDeliveredOnRestore(t *testing.T) {
	sim, drv := newSimDriver(t)
	if err := drv.SetFrequency(440); err != nil {
		t.Fatalf("set frequency: %v", err)
	}
	want, _ := timer.Solve(440, testClock, timer.DefaultDutyFraction)

	st := sim.Disable()
	sim.Advance(uint64(want.Active.TotalTicks()) + 5)
	if !sim.Pending() || drv.Mode() != Active {
		t.Fatalf("match inside critical section should stay pending")
	}
	sim.Restore(st)
	if sim.Pending() || drv.Mode() != Inactive {
		t.Fatalf("pending match not delivered on restore: mode %v", drv.Mode())
	}
}

func TestUnrepresentableFrequencyLeavesDriverUntouched(t *testing.T) {
	sim, drv := newSimDriver(t)
	err := drv.SetFrequency(0.01)
	if !errors.Is(err, timer.ErrUnrepresentableFrequency) {
		t.Fatalf("err = %v, want ErrUnrepresentableFrequency", err)
	}
	if drv.Mode() != Disabled || sim.Running() {
		t.Fatalf("driver changed state on error")
	}
}

func TestPlaySongFallsBackToSilence(t *testing.T) {
	sim, drv := newSimDriver(t)
	song := note.NewSong("", []note.Note{
		{Pitch: note.Pitch(note.A, 0), Length: note.UnitLength()},
		// far below anything Timer1 can time
		{Pitch: note.Pitch(note.A, -20), Length: note.UnitLength()},
		{Pitch: note.Rest, Length: note.UnitLength()},
		{Pitch: note.Pitch(note.E, 0), Length: note.UnitLength()},
	})
	var errs []error
	var seen []int
	err := PlaySong(context.Background(), sequencer.New(song, 60), drv, sim.Sleep, func(st sequencer.Step, err error) {
		seen = append(seen, st.Index)
		errs = append(errs, err)
	})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if len(seen) != 4 {
		t.Fatalf("observed %d notes, want 4", len(seen))
	}
	if errs[0] != nil || errs[2] != nil || errs[3] != nil {
		t.Fatalf("unexpected note errors %v", errs)
	}
	if !errors.Is(errs[1], timer.ErrUnrepresentableFrequency) {
		t.Fatalf("note 1 err = %v, want ErrUnrepresentableFrequency", errs[1])
	}
	if drv.Mode() != Disabled || sim.Running() {
		t.Fatalf("driver not disabled after playback")
	}
	// 4 unit notes at 60 BPM last one second of clock
	if sim.Now() != testClock {
		t.Fatalf("sim clock = %d, want %d", sim.Now(), testClock)
	}
	// the silent stretch (notes 1 and 2) has no transitions
	for _, e := range sim.Edges() {
		if e.At > testClock/4+1 && e.At < 3*testClock/4 {
			t.Fatalf("pin toggled at %d during silence", e.At)
		}
	}
}

func TestPlaySongHonoursCancellation(t *testing.T) {
	sim, drv := newSimDriver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	song := note.NewSong("", []note.Note{{Pitch: note.Pitch(note.A, 0), Length: note.UnitLength()}})
	if err := PlaySong(ctx, sequencer.New(song, 60), drv, sim.Sleep, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
