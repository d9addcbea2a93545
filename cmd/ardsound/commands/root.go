package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cbegin/ardsound-go/internal/abc"
	"github.com/cbegin/ardsound-go/internal/config"
	"github.com/cbegin/ardsound-go/internal/note"
	"github.com/cbegin/ardsound-go/internal/songfile"
)

var (
	// Global flags
	configPath string
	verbose    bool
	tempoFlag  float64
	abcUpper   bool

	globalConfig config.Config
	logger       = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "ardsound",
	Short: "Play ABC songs on a sound card or a piezo buzzer",
	Long: `ardsound - render symbolic songs as sine audio or as buzzer timer settings.

Songs are read from .abc, .yaml/.yml or .msgpack files. The tempo comes from
--tempo, then the song's Q: field or tempo key, then the configuration file.

Examples:
  ardsound play mary.abc
  ardsound render -o mary.wav mary.abc
  ardsound export --format header -o song.h mary.abc
  ardsound simulate --tempo 120 mary.abc`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		globalConfig = cfg
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Float64VarP(&tempoFlag, "tempo", "t", 0, "tempo in BPM (overrides the song and config)")
	rootCmd.PersistentFlags().BoolVar(&abcUpper, "abc-lowercase-up", false, "treat lowercase ABC letters as one octave up")
}

// loadSong reads the song at path and resolves its tempo.
func loadSong(path string) (songfile.Loaded, note.Tempo, error) {
	cfg := abc.DefaultParserConfig()
	cfg.LowercaseOctaveUp = abcUpper
	loaded, err := songfile.Load(path, cfg)
	if err != nil {
		return songfile.Loaded{}, 0, err
	}
	if tempoFlag < 0 {
		return songfile.Loaded{}, 0, fmt.Errorf("tempo must be positive, got %v", tempoFlag)
	}
	tempo := loaded.TempoOr(globalConfig.Tempo())
	if tempoFlag > 0 {
		tempo = note.Tempo(tempoFlag)
	}
	logger.Debug("loaded song", "path", path, "title", loaded.Song.Title(), "notes", loaded.Song.Len(), "tempo", float64(tempo))
	return loaded, tempo, nil
}
