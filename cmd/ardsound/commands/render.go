package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cbegin/ardsound-go"
	"github.com/cbegin/ardsound-go/internal/synth"
)

var (
	renderOutput string
	renderFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render <song>",
	Short: "Render a song to raw PCM16 or WAV",
	Long: `Render a song offline.

The raw format is headerless signed 16-bit little-endian interleaved frames.
The format defaults to the output file extension (.wav, otherwise raw).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, tempo, err := loadSong(args[0])
		if err != nil {
			return err
		}
		cfg := applyOutputFlags(cmd.Flags(), globalConfig)
		if err := cfg.Validate(); err != nil {
			return err
		}
		format := renderFormat
		if format == "" {
			format = "raw"
			if strings.EqualFold(filepath.Ext(renderOutput), ".wav") {
				format = "wav"
			}
		}

		f, err := os.Create(renderOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := []synth.Option{synth.WithVolume(cfg.Volume)}
		switch format {
		case "wav":
			err = ardsound.WriteWAV(f, loaded.Song, tempo, cfg.Format(), opts...)
		case "raw":
			w := bufio.NewWriter(f)
			if err = ardsound.WriteRawPCM16(w, loaded.Song, tempo, cfg.Format(), opts...); err == nil {
				err = w.Flush()
			}
		default:
			return fmt.Errorf("unknown render format %q (want raw or wav)", format)
		}
		if err != nil {
			return err
		}
		logger.Info("rendered", "output", renderOutput, "format", format,
			"frames", ardsound.Frames(loaded.Song, tempo, cfg.SampleRate), "rate", cfg.SampleRate, "channels", cfg.Channels)
		return f.Close()
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "output format: raw|wav")
	renderCmd.MarkFlagRequired("output")
	addOutputFlags(renderCmd.Flags())
	rootCmd.AddCommand(renderCmd)
}
