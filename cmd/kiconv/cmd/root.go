package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	symbolsFile string
	timestamp   uint32

	logger = newLogger(os.Stderr, false)
)

var rootCmd = &cobra.Command{
	Use:   "kiconv",
	Short: "kiconv - schematic conversion and KiCad board tools",
	Long: `kiconv converts schematics to the KiCad legacy schematic format and
loads, saves and checks KiCad board files:
  - LTspice .asc and gEDA gschem .sch schematics to KiCad .sch
  - KiCad .kicad_pcb summary, reformatting and round-trip checks

Examples:
  kiconv convert filter.asc filter.sch         # Convert, format from extension
  kiconv gschem power.sch power_kicad.sch      # Convert a gschem schematic
  kiconv pcb info board.kicad_pcb              # Show board summary
  kiconv pcb check board.kicad_pcb             # Verify load/save round trip`,
	Version:       "0.1.0",
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Arguments are valid by now; later failures are not usage errors.
		cmd.SilenceUsage = true
		logger = newLogger(os.Stderr, verbose)
		color.NoColor = !isTerminal(os.Stderr)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&symbolsFile, "symbols", "", "YAML symbol table extending the built-in mapping")
	rootCmd.PersistentFlags().Uint32Var(&timestamp, "timestamp", 0, "timestamp of the first component (default: now)")
}

// newLogger returns a text logger without timestamps. Verbose output lowers
// the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
