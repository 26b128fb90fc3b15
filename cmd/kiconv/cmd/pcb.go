package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/pcb"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp"
)

var pcbCmd = &cobra.Command{
	Use:   "pcb",
	Short: "KiCad PCB file operations",
	Long:  `Commands for working with KiCad PCB files (.kicad_pcb)`,
}

var pcbInfoCmd = &cobra.Command{
	Use:   "info <board_file>",
	Short: "Show a board summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runPCBInfo,
}

var pcbNetsCmd = &cobra.Command{
	Use:   "nets <board_file> [net_name]",
	Short: "Show PCB net information",
	Long: `Display information about nets in a PCB file.

Without net_name: Lists all nets with pad/track/via counts
With net_name: Shows detailed information for that specific net`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPCBNets,
}

var pcbFmtCmd = &cobra.Command{
	Use:   "fmt <board_file> [output_file]",
	Short: "Load a board and save it again",
	Long: `Load a board and write it back in canonical layout, to output_file or
to standard output.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPCBFmt,
}

var pcbCheckCmd = &cobra.Command{
	Use:   "check <board_file>",
	Short: "Verify that a board survives a load/save round trip",
	Long: `Load a board, save it, and compare the result with the input. Lines that
change are listed; the command fails when any do.`,
	Args: cobra.ExactArgs(1),
	RunE: runPCBCheck,
}

func init() {
	rootCmd.AddCommand(pcbCmd)
	pcbCmd.AddCommand(pcbInfoCmd)
	pcbCmd.AddCommand(pcbNetsCmd)
	pcbCmd.AddCommand(pcbFmtCmd)
	pcbCmd.AddCommand(pcbCheckCmd)
}

func runPCBInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	board, err := pcb.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	version, _ := board.Version.Get()
	layers, _ := board.Layers.Get()
	copper := board.NewLayerMap().Copper()
	fmt.Printf("Board: %s\n", filename)
	fmt.Printf("  Version: %d\n", version)
	fmt.Printf("  Generator: %s\n", board.Generator())
	fmt.Printf("  Layers: %d (%d copper: %s)\n", len(layers), len(copper), strings.Join(copper, ", "))
	fmt.Printf("  Nets: %d\n", board.Nets.Len())
	fmt.Printf("  Modules: %d\n", len(board.Modules))
	fmt.Printf("  Tracks: %d\n", len(board.Segments))
	fmt.Printf("  Vias: %d\n", len(board.Vias))
	fmt.Printf("  Zones: %d\n", len(board.Zones))

	bbox := board.GetBoundingBox()
	if !bbox.IsEmpty() {
		center := bbox.Center()
		fmt.Printf("  Board size: %s x %s mm\n", sexp.FormatDistance(bbox.Width()), sexp.FormatDistance(bbox.Height()))
		fmt.Printf("  Board center: (%s, %s) mm\n", sexp.FormatDistance(center.X), sexp.FormatDistance(center.Y))
		fmt.Printf("  Board area: %.2f mm²\n", sexp.MM(bbox.Width())*sexp.MM(bbox.Height()))
	}
	return nil
}

func runPCBNets(cmd *cobra.Command, args []string) error {
	filename := args[0]

	// Parse board
	board, err := pcb.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}

	// If net name provided, show details for that net
	if len(args) >= 2 {
		return showNetDetails(board, args[1])
	}

	listAllNets(board)
	return nil
}

func listAllNets(board *pcb.Board) {
	fmt.Printf("Board: %d nets\n\n", board.Nets.Len())
	fmt.Printf("%-30s %6s %6s %6s %6s\n", "Net Name", "Pads", "Tracks", "Vias", "Zones")
	fmt.Println("────────────────────────────────────────────────────────────")

	netNames := board.GetAllNetNames()
	sort.Strings(netNames)

	for _, netName := range netNames {
		info := board.GetNetInfo(netName)
		if info != nil {
			fmt.Printf("%-30s %6d %6d %6d %6d\n",
				netName,
				len(info.Pads),
				len(info.Segments),
				len(info.Vias),
				len(info.Zones))
		}
	}
}

func showNetDetails(board *pcb.Board, netName string) error {
	info := board.GetNetInfo(netName)
	if info == nil {
		return fmt.Errorf("net '%s' not found", netName)
	}

	fmt.Printf("Net: %s (number %d)\n\n", info.Net.Name, info.Net.ID)

	fmt.Printf("Pads (%d):\n", len(info.Pads))
	for _, p := range info.Pads {
		fmt.Printf("  %s pad %-4s: %s %s\n", p.Module.Reference(), p.Pad.Number, p.Pad.Type, p.Pad.Shape)
	}

	fmt.Printf("\nTracks (%d):\n", len(info.Segments))
	for i, s := range info.Segments {
		layer, _ := s.Layer.Get()
		fmt.Printf("  Track %d: %s mm wide on %s\n", i+1, sexp.FormatDistance(s.Width.Or(0)), layer)
	}

	fmt.Printf("\nVias (%d):\n", len(info.Vias))
	for i, v := range info.Vias {
		fmt.Printf("  Via %d: %s mm diameter, %s mm drill\n", i+1,
			sexp.FormatDistance(v.Size.Or(0)), sexp.FormatDistance(v.Drill.Or(0)))
	}

	fmt.Printf("\nZones (%d)\n", len(info.Zones))
	return nil
}

func runPCBFmt(cmd *cobra.Command, args []string) error {
	board, err := pcb.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("error parsing board: %w", err)
	}

	if len(args) == 2 {
		logger.Debug("writing board", "file", args[1])
		return pcb.WriteFile(args[1], board)
	}
	w := bufio.NewWriter(os.Stdout)
	if err := pcb.Write(w, board); err != nil {
		return err
	}
	return w.Flush()
}

func runPCBCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read board: %w", err)
	}

	rt, err := pcb.CheckRoundTrip(data)
	if err != nil {
		return fmt.Errorf("error loading board: %w", err)
	}
	logger.Debug("leaf counts", "original", rt.OriginalLeaves, "saved", rt.SavedLeaves)

	if rt.Equal() {
		fmt.Printf("%s %s round-trips unchanged\n", color.GreenString("ok"), args[0])
		return nil
	}

	red, green := color.New(color.FgRed).SprintFunc(), color.New(color.FgGreen).SprintFunc()
	for _, line := range rt.Report() {
		if line[0] == '-' {
			fmt.Println(red(line))
		} else {
			fmt.Println(green(line))
		}
	}
	if rt.OriginalLeaves >= 0 && rt.OriginalLeaves != rt.SavedLeaves {
		fmt.Printf("leaf count changed: %d -> %d\n", rt.OriginalLeaves, rt.SavedLeaves)
	}
	return fmt.Errorf("%s: round trip changed %d chunks", args[0], rt.Changed())
}
