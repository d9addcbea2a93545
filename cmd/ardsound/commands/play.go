package commands

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cbegin/ardsound-go"
	"github.com/cbegin/ardsound-go/internal/config"
)

var (
	playBackend    string
	playSampleRate int
	playChannels   int
	playVolume     float64
)

var playCmd = &cobra.Command{
	Use:   "play <song>",
	Short: "Play a song on the audio device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, tempo, err := loadSong(args[0])
		if err != nil {
			return err
		}
		cfg := applyOutputFlags(cmd.Flags(), globalConfig)
		if err := cfg.Validate(); err != nil {
			return err
		}
		channels := cfg.Channels
		if cfg.Backend == config.BackendEbiten && channels != 2 {
			logger.Debug("ebiten plays stereo; using 2 channels", "configured", channels)
			channels = 2
		}

		pl, err := ardsound.NewPlayer(cfg.SampleRate,
			ardsound.WithBackend(string(cfg.Backend)),
			ardsound.WithChannels(channels),
			ardsound.WithVolume(cfg.Volume),
			ardsound.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		events := pl.Watch()
		if err := pl.Play(loaded.Song, tempo); err != nil {
			return fmt.Errorf("start playback: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		// events can be dropped under load; Wait is the authoritative end
		done := make(chan struct{})
		go func() {
			pl.Wait()
			close(done)
		}()
		for {
			select {
			case <-ctx.Done():
				logger.Info("interrupted")
				return pl.Stop()
			case ev := <-events:
				if ev.Kind == ardsound.EventNoteStarted {
					logger.Debug("note", "index", ev.NoteIndex, "note", ev.Note.String(), "hz", ev.Frequency)
				}
			case <-done:
				fmt.Fprintln(cmd.OutOrStdout(), "playback completed")
				return nil
			}
		}
	},
}

// applyOutputFlags overrides configuration values with explicitly set flags.
func applyOutputFlags(fs *pflag.FlagSet, cfg config.Config) config.Config {
	if fs.Changed("backend") {
		cfg.Backend = config.Backend(playBackend)
	}
	if fs.Changed("sample-rate") {
		cfg.SampleRate = playSampleRate
	}
	if fs.Changed("channels") {
		cfg.Channels = playChannels
	}
	if fs.Changed("volume") {
		cfg.Volume = playVolume
	}
	return cfg
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.IntVar(&playSampleRate, "sample-rate", 44100, "output sample rate")
	fs.IntVar(&playChannels, "channels", 1, "output channel count")
	fs.Float64Var(&playVolume, "volume", 1.0/20, "sine amplitude in [0, 1]")
}

func init() {
	playCmd.Flags().StringVarP(&playBackend, "backend", "b", string(config.BackendOto), "audio backend: oto|ebiten")
	addOutputFlags(playCmd.Flags())
	rootCmd.AddCommand(playCmd)
}
