package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cbegin/ardsound-go/internal/codegen"
)

var (
	exportOutput  string
	exportFormat  string
	exportPackage string
	exportName    string
	exportTags    string
)

var exportCmd = &cobra.Command{
	Use:   "export <song>",
	Short: "Export a song for the buzzer firmware",
	Long: `Export a song as source or data for the embedded player.

Formats:
  header   C header with a lookup table of distinct notes and an index list
  go       Go source declaring a note.Song and its tempo
  msgpack  msgpack song document, readable by every ardsound command`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, tempo, err := loadSong(args[0])
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		var file *os.File
		if exportOutput != "" && exportOutput != "-" {
			file, err = os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer file.Close()
			w = file
		}

		switch exportFormat {
		case "header":
			opt := codegen.Optimize(loaded.Song)
			logger.Debug("optimized", "notes", len(opt.List), "unique", len(opt.Uniques))
			err = codegen.WriteCHeader(w, loaded.Song)
		case "go":
			err = codegen.WriteGo(w, loaded.Song, tempo, codegen.GoOptions{Package: exportPackage, Name: exportName, BuildTags: exportTags})
		case "msgpack":
			err = codegen.WriteMsgpack(w, loaded.Song, tempo)
		default:
			return fmt.Errorf("unknown export format %q (want header, go or msgpack)", exportFormat)
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", exportFormat, err)
		}
		if file != nil {
			return file.Close()
		}
		return nil
	},
}

func init() {
	def := codegen.DefaultGoOptions()
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "output file (- for stdout)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "header", "export format: header|go|msgpack")
	exportCmd.Flags().StringVar(&exportPackage, "package", def.Package, "package name for go output")
	exportCmd.Flags().StringVar(&exportName, "name", def.Name, "song variable name for go output")
	exportCmd.Flags().StringVar(&exportTags, "tags", "", "build constraint for go output, e.g. \"tinygo && avr\"")
	rootCmd.AddCommand(exportCmd)
}
