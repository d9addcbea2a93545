package note

import "math"

// ReferenceFrequency is the frequency of class A at octave 0.
const ReferenceFrequency = 440.0

// DefaultBPM is used when neither the song nor the configuration names a tempo.
const DefaultBPM = 60.0

// Frequency returns the equal-tempered frequency of p in Hz. Rests have no
// frequency. Extreme octaves are not clamped; callers reject what they cannot
// represent.
func Frequency(p PitchOrRest) (float64, bool) {
	if p.Rest {
		return 0, false
	}
	halfSteps := float64(p.HalfStepsFromA440())
	return ReferenceFrequency * math.Pow(2, halfSteps/12), true
}

// Tempo is a fixed beats-per-minute value for a whole song.
type Tempo float64

// UnitSeconds is the length of one unit, a quarter of a beat.
func (t Tempo) UnitSeconds() float64 {
	if t <= 0 {
		return 0
	}
	return 60 / (float64(t) * 4)
}

// DurationSeconds resolves a length against the unit length. A zero divisor
// resolves to zero seconds.
func DurationSeconds(l Length, unitSeconds float64) float64 {
	switch l.Kind {
	case Multiple:
		return unitSeconds * float64(l.N)
	case Division:
		if l.N == 0 {
			return 0
		}
		return unitSeconds / float64(l.N)
	default:
		return unitSeconds
	}
}

// TotalPlaytime sums the resolved duration of every note in the song.
func (s Song) TotalPlaytime(t Tempo) float64 {
	unit := t.UnitSeconds()
	var total float64
	for _, n := range s.notes {
		total += DurationSeconds(n.Length, unit)
	}
	return total
}
