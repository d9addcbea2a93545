package timer

import (
	"errors"
	"math"
	"testing"
)

func TestSolveScenario440(t *testing.T) {
	d, err := Solve(440, 16_000_000, 0.01)
	if err != nil {
		t.Fatalf("solve 440 Hz: %v", err)
	}
	if d.Active.Prescaler != Prescale1 || d.Inactive.Prescaler != Prescale1 {
		t.Fatalf("prescalers = %d/%d, want 1/1", d.Active.Prescaler, d.Inactive.Prescaler)
	}
	if d.Active.Ticks < 360 || d.Active.Ticks > 365 {
		t.Fatalf("active ticks = %d, want about 364", d.Active.Ticks)
	}
	if d.Inactive.Ticks < 35990 || d.Inactive.Ticks > 36010 {
		t.Fatalf("inactive ticks = %d, want about 36000", d.Inactive.Ticks)
	}
	if total := d.Active.TotalTicks() + d.Inactive.TotalTicks(); total != 36363 {
		t.Fatalf("period ticks = %d, want 36363", total)
	}
}

func TestSolveTooLowFrequency(t *testing.T) {
	// a period longer than 65535*1024 ticks cannot be represented
	f := 16_000_000.0 / (65535 * 1024 * 2)
	if _, err := Solve(f, 16_000_000, 0.01); !errors.Is(err, ErrUnrepresentableFrequency) {
		t.Fatalf("solve %v Hz: err = %v, want ErrUnrepresentableFrequency", f, err)
	}
}

func TestSolveRejectsDegenerateFrequencies(t *testing.T) {
	for _, f := range []float64{0, -440, math.NaN(), math.Inf(1), 32_000_000} {
		if _, err := Solve(f, 16_000_000, 0.01); !errors.Is(err, ErrUnrepresentableFrequency) {
			t.Fatalf("solve %v Hz: err = %v, want ErrUnrepresentableFrequency", f, err)
		}
	}
}

func TestSolveRejectsBadDuty(t *testing.T) {
	for _, duty := range []float64{-0.1, 1.5, math.NaN()} {
		if _, err := Solve(440, 16_000_000, duty); !errors.Is(err, ErrInvalidDutyFraction) {
			t.Fatalf("duty %v: err = %v, want ErrInvalidDutyFraction", duty, err)
		}
	}
}

func TestFromTicks(t *testing.T) {
	cases := []struct {
		ticks     uint64
		wantTicks uint16
		wantScale Prescaler
		wantErr   bool
	}{
		{0, 0, Prescale1, false},
		{65535, 65535, Prescale1, false},
		{65536, 8192, Prescale8, false},
		{524280, 65535, Prescale8, false},
		{524288, 8192, Prescale64, false},
		{65535 * 64, 65535, Prescale64, false},
		// the next power of eight is 512, which the hardware lacks
		{65536 * 64, 0, 0, true},
		{1 << 40, 0, 0, true},
	}
	for _, tc := range cases {
		got, err := FromTicks(tc.ticks)
		if tc.wantErr {
			if !errors.Is(err, ErrUnrepresentableFrequency) {
				t.Fatalf("FromTicks(%d) err = %v, want ErrUnrepresentableFrequency", tc.ticks, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("FromTicks(%d): %v", tc.ticks, err)
		}
		if got.Ticks != tc.wantTicks || got.Prescaler != tc.wantScale {
			t.Fatalf("FromTicks(%d) = %v, want ticks %d prescale %d", tc.ticks, got, tc.wantTicks, tc.wantScale)
		}
	}
}

func TestSolvePrescalerAlwaysSupported(t *testing.T) {
	const clock = 16_000_000
	solved := 0
	for f := 0.5; f < 100_000; f *= 1.01 {
		d, err := Solve(f, clock, DefaultDutyFraction)
		if err != nil {
			if !errors.Is(err, ErrUnrepresentableFrequency) {
				t.Fatalf("solve %v Hz: unexpected error %v", f, err)
			}
			continue
		}
		solved++
		if !d.Active.Prescaler.Valid() || !d.Inactive.Prescaler.Valid() {
			t.Fatalf("solve %v Hz produced prescalers %d/%d", f, d.Active.Prescaler, d.Inactive.Prescaler)
		}
	}
	if solved == 0 {
		t.Fatalf("no frequency in the sweep was solvable")
	}
}

func TestSolveRoundTripPeriod(t *testing.T) {
	const clock = 16_000_000.0
	for f := 30.0; f < 20_000; f *= 1.03 {
		d, err := Solve(f, clock, 0.02)
		if err != nil {
			t.Fatalf("solve %v Hz: %v", f, err)
		}
		// truncation loses less than one prescaled tick per half, plus the
		// fractional tick dropped from the period
		slack := float64(d.Active.Prescaler+d.Inactive.Prescaler+1) / clock
		if diff := math.Abs(d.Period(clock) - 1/f); diff > slack {
			t.Fatalf("solve %v Hz: period %v, want %v within %v", f, d.Period(clock), 1/f, slack)
		}
	}
}

func TestPrescalerValid(t *testing.T) {
	for _, p := range []Prescaler{1, 8, 64, 256, 1024} {
		if !p.Valid() {
			t.Fatalf("prescaler %d should be valid", p)
		}
	}
	for _, p := range []Prescaler{0, 2, 16, 512, 4096} {
		if p.Valid() {
			t.Fatalf("prescaler %d should be invalid", p)
		}
	}
}
