package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/kiconv/pkg/convert"
	"github.com/OpenTraceLab/kiconv/pkg/symbols"
)

var fromFormat string

var convertCmd = &cobra.Command{
	Use:   "convert <source> <target>",
	Short: "Convert a schematic to KiCad legacy format",
	Long: `Convert an LTspice (.asc) or gschem (.sch) schematic to a KiCad legacy
schematic. The source format is chosen from the file extension unless --from
is given.

Symbols without an entry in the symbol table are skipped with a warning.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := sourceDialect(args[0])
		if err != nil {
			return err
		}
		return runConvert(d, args[0], args[1])
	},
}

var ltspiceCmd = &cobra.Command{
	Use:   "ltspice <source.asc> <target.sch>",
	Short: "Convert an LTspice schematic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(convert.LTspice, args[0], args[1])
	},
}

var gschemCmd = &cobra.Command{
	Use:   "gschem <source.sch> <target.sch>",
	Short: "Convert a gEDA gschem schematic",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(convert.GSchem, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(ltspiceCmd)
	rootCmd.AddCommand(gschemCmd)

	convertCmd.Flags().StringVar(&fromFormat, "from", "", "source format: ltspice or gschem")
}

func sourceDialect(path string) (convert.Dialect, error) {
	if fromFormat != "" {
		return convert.ParseDialect(fromFormat)
	}
	return convert.DetectDialect(path)
}

func runConvert(d convert.Dialect, src, dst string) error {
	table, err := symbolTable(d)
	if err != nil {
		return err
	}

	stamp := timestamp
	if stamp == 0 {
		stamp = uint32(time.Now().Unix())
	}

	logger.Debug("converting", "source", src, "target", dst, "format", d)
	diags, err := convert.ConvertFile(d, src, dst, convert.Config{
		Table:  table,
		Stamp:  stamp,
		Logger: logger,
	})
	printDiagnostics(os.Stderr, diags)
	if err != nil {
		return fmt.Errorf("error converting %s: %w", src, err)
	}
	return nil
}

// symbolTable returns the built-in table of a dialect, extended by the
// --symbols file when one is given.
func symbolTable(d convert.Dialect) (*symbols.Table, error) {
	table, err := symbols.Default(string(d))
	if err != nil {
		return nil, err
	}
	if symbolsFile == "" {
		return table, nil
	}
	extra, err := symbols.LoadFile(symbolsFile)
	if err != nil {
		return nil, err
	}
	return table.Merge(extra), nil
}

func printDiagnostics(w io.Writer, diags convert.Diagnostics) {
	warn := color.New(color.FgYellow).SprintFunc()
	for _, d := range diags.Warnings {
		fmt.Fprintf(w, "%s %s\n", warn("[WARN]"), d.Message)
	}
	for _, d := range diags.Infos {
		logger.Debug(d.Message, "code", d.Code)
	}
}
