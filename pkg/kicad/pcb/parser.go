package pcb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/bind"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp/kicadsexp"
)

// ParseFile reads and parses a KiCad board file
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad board from an io.Reader
func Parse(r io.Reader) (*Board, error) {
	// Parse s-expressions directly from reader (streaming, no memory limit)
	root, err := kicadsexp.ParseNode(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	return FromNode(root)
}

// FromNode binds an already parsed (kicad_pcb ...) tree.
func FromNode(root *kicadsexp.Node) (*Board, error) {
	board := &Board{}
	if err := bind.LoadRoot(board, RootKeyword, root); err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return board, nil
}

// Node builds the (kicad_pcb ...) tree for the board.
func (b *Board) Node() (*kicadsexp.Node, error) {
	n, err := bind.Save(b, RootKeyword)
	if err != nil {
		return nil, fmt.Errorf("failed to save board: %w", err)
	}
	return n, nil
}

// Write serializes the board to w.
func Write(w io.Writer, b *Board) error {
	n, err := b.Node()
	if err != nil {
		return err
	}
	return kicadsexp.Write(w, n)
}

// WriteFile serializes the board to filename. The file is only created once
// the board has been encoded, and is removed again if writing fails.
func WriteFile(filename string, b *Board) (err error) {
	n, err := b.Node()
	if err != nil {
		return err
	}

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

	w := bufio.NewWriter(file)
	if err := kicadsexp.Write(w, n); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}
	return w.Flush()
}

// Generator returns the tool named by the host header, or "unknown".
func (b *Board) Generator() string {
	if host, ok := b.Host.Get(); ok && len(host) > 0 {
		return host[0]
	}
	return "unknown"
}
