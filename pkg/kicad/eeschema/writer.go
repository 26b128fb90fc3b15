package eeschema

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Write serializes the schematic to w.
func Write(w io.Writer, s *Schematic) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "EESchema Schematic File Version %d\n", Version)
	fmt.Fprintf(bw, "EELAYER 26 0\n")
	fmt.Fprintf(bw, "EELAYER END\n")
	writeDescr(bw, s)

	for _, it := range s.Items {
		switch it := it.(type) {
		case *Wire:
			fmt.Fprintf(bw, "Wire Wire Line\n")
			fmt.Fprintf(bw, "\t%-4d %-4d %-4d %-4d\n", it.X1, it.Y1, it.X2, it.Y2)
		case *Connection:
			fmt.Fprintf(bw, "Connection ~ %-4d %-4d\n", it.X, it.Y)
		case *Label:
			fmt.Fprintf(bw, "Text Label %-4d %-4d %-4d %-4d ~ 0\n", it.X, it.Y, it.Orientation, it.Size)
			fmt.Fprintf(bw, "%s\n", oneLine(it.Text))
		case *Note:
			fmt.Fprintf(bw, "Text Notes %-4d %-4d %-4d %-4d ~ 0\n", it.X, it.Y, it.Orientation, it.Size)
			fmt.Fprintf(bw, "%s\n", oneLine(it.Text))
		case *Component:
			writeComponent(bw, it)
		default:
			return fmt.Errorf("unsupported schematic item %T", it)
		}
	}

	fmt.Fprintf(bw, "$EndSCHEMATC\n")
	return bw.Flush()
}

func writeDescr(w *bufio.Writer, s *Schematic) {
	fmt.Fprintf(w, "$Descr %s %d %d\n", s.Page.Format, s.Page.Width, s.Page.Height)
	fmt.Fprintf(w, "encoding utf-8\n")
	fmt.Fprintf(w, "Sheet 1 1\n")
	tb := s.TitleBlock
	fmt.Fprintf(w, "Title %s\n", quote(tb.Title))
	fmt.Fprintf(w, "Date %s\n", quote(tb.Date))
	fmt.Fprintf(w, "Rev %s\n", quote(tb.Rev))
	fmt.Fprintf(w, "Comp %s\n", quote(tb.Company))
	for i, c := range tb.Comments {
		fmt.Fprintf(w, "Comment%d %s\n", i+1, quote(c))
	}
	fmt.Fprintf(w, "$EndDescr\n")
}

func writeComponent(w *bufio.Writer, c *Component) {
	fmt.Fprintf(w, "$Comp\n")
	fmt.Fprintf(w, "L %s %s\n", c.Lib, c.Ref)
	fmt.Fprintf(w, "U %d %d %08X\n", c.Unit, c.Convert, c.Timestamp)
	fmt.Fprintf(w, "P %d %d\n", c.X, c.Y)
	for i, f := range c.Fields {
		fmt.Fprintf(w, "F %d %s %s %d %d %d  %s %s %s", i, quote(f.Text), f.Orientation, f.X, f.Y, f.Size, f.Flags, f.Just, f.Style)
		if f.Name != "" {
			fmt.Fprintf(w, " %s", quote(f.Name))
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "\t%-4d %-4d %-4d\n", c.Unit, c.X, c.Y)
	m := c.Matrix
	fmt.Fprintf(w, "\t%-4d %-4d %-4d %-4d\n", m[0], m[1], m[2], m[3])
	fmt.Fprintf(w, "$EndComp\n")
}

// Every item is line based, so text never carries a raw line break.
var (
	quoter   = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`, "\r", `\n`)
	newlines = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\n`)
)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

func oneLine(s string) string {
	return newlines.Replace(s)
}

// WriteFile writes the schematic to filename. A partially written file is
// removed on failure.
func WriteFile(filename string, s *Schematic) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
		if err != nil {
			err = errors.Join(err, os.Remove(filename))
		}
	}()

	if err := Write(file, s); err != nil {
		return fmt.Errorf("failed to write schematic: %w", err)
	}
	return nil
}
