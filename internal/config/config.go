// Package config loads ardsound settings from a YAML file.
//
// Every field is optional; missing fields keep the value from Default. A
// typical file:
//
//	sample_rate: 48000
//	channels: 2
//	bpm: 90
//	backend: ebiten
//	timer:
//	  clock_rate: 16000000
//	  duty_fraction: 0.01
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cbegin/ardsound-go/internal/note"
	"github.com/cbegin/ardsound-go/internal/synth"
	"github.com/cbegin/ardsound-go/internal/timer"
)

// Backend names a live audio output.
type Backend string

const (
	BackendOto    Backend = "oto"
	BackendEbiten Backend = "ebiten"
)

type Config struct {
	SampleRate int     `yaml:"sample_rate"`
	Channels   int     `yaml:"channels"`
	BPM        float64 `yaml:"bpm"`
	Volume     float64 `yaml:"volume"`
	Backend    Backend `yaml:"backend"`
	Timer      Timer   `yaml:"timer"`
}

// Timer configures the embedded tone path and its simulator.
type Timer struct {
	ClockRate    float64 `yaml:"clock_rate"`
	DutyFraction float64 `yaml:"duty_fraction"`
}

func Default() Config {
	return Config{
		SampleRate: 44100,
		Channels:   1,
		BPM:        note.DefaultBPM,
		Volume:     synth.DefaultVolume,
		Backend:    BackendOto,
		Timer: Timer{
			ClockRate:    timer.DefaultClockRate,
			DutyFraction: timer.DefaultDutyFraction,
		},
	}
}

// Load reads path over the defaults. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	}
	if c.BPM <= 0 {
		return fmt.Errorf("bpm must be positive, got %v", c.BPM)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume must be within [0, 1], got %v", c.Volume)
	}
	switch c.Backend {
	case BackendOto, BackendEbiten:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Timer.ClockRate <= 0 {
		return fmt.Errorf("timer.clock_rate must be positive, got %v", c.Timer.ClockRate)
	}
	if c.Timer.DutyFraction < 0 || c.Timer.DutyFraction > 1 {
		return fmt.Errorf("timer.duty_fraction: %w", timer.ErrInvalidDutyFraction)
	}
	return nil
}

// Tempo is the configured BPM as a note.Tempo.
func (c Config) Tempo() note.Tempo { return note.Tempo(c.BPM) }

func (c Config) Format() synth.Format {
	return synth.Format{SampleRate: c.SampleRate, Channels: c.Channels}
}
