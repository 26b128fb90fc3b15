// Package symbols maps source symbol names onto KiCad library symbols.
//
// Tables are YAML documents:
//
//	name: ltspice
//	symbols:
//	  res: {lib: "Device:R", xoff: 10, yoff: 10, rotate: 0}
//	  "*": {lib: "power:PWR_FLAG"}
//
// The "*" entry is the fallback used for LTspice flags without a mapping.
package symbols

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/orient"
)

// Fallback is the key of the catch-all entry.
const Fallback = "*"

// Dialect names of the built-in tables.
const (
	LTspice = "ltspice"
	GSchem  = "gschem"
)

// ErrInvalidEntry is returned for a table entry that cannot be used.
var ErrInvalidEntry = errors.New("invalid symbol entry")

//go:embed ltspice.yaml gschem.yaml
var builtin embed.FS

// Entry is the KiCad identity of one source symbol. XOff and YOff locate the
// KiCad anchor relative to the source anchor, in source units and in the
// symbol's unrotated frame. Rotate is added to the source rotation.
type Entry struct {
	Lib    string `yaml:"lib"`
	XOff   int    `yaml:"xoff,omitempty"`
	YOff   int    `yaml:"yoff,omitempty"`
	Rotate int    `yaml:"rotate,omitempty"`
}

// Table is a named set of entries keyed by source symbol name.
type Table struct {
	Name    string           `yaml:"name"`
	Symbols map[string]Entry `yaml:"symbols"`
}

// Default returns the built-in table for a dialect.
func Default(dialect string) (*Table, error) {
	data, err := builtin.ReadFile(dialect + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no built-in symbol table for %q", dialect)
	}
	return Parse(data)
}

// LoadFile loads a symbol table from a YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read symbol table %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses and validates YAML table data.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse symbol table YAML: %w", err)
	}
	if t.Symbols == nil {
		t.Symbols = map[string]Entry{}
	}
	if err := t.normalize(); err != nil {
		return nil, err
	}
	return &t, nil
}

// normalize checks every entry and folds rotations into [0, 360).
func (t *Table) normalize() error {
	for name, e := range t.Symbols {
		lib, sym, ok := strings.Cut(e.Lib, ":")
		if !ok || lib == "" || sym == "" {
			return fmt.Errorf("%w %q: lib %q is not library:symbol", ErrInvalidEntry, name, e.Lib)
		}
		r, err := orient.Normalize(e.Rotate)
		if err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidEntry, name, err)
		}
		e.Rotate = r
		t.Symbols[name] = e
	}
	return nil
}

// Lookup returns the entry for a source symbol name. The fallback entry is
// not consulted.
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.Symbols[name]
	return e, ok
}

// Merge returns a copy of t with the entries of override added or replacing
// those of t.
func (t *Table) Merge(override *Table) *Table {
	merged := &Table{Name: t.Name, Symbols: make(map[string]Entry, len(t.Symbols)+len(override.Symbols))}
	for k, v := range t.Symbols {
		merged.Symbols[k] = v
	}
	for k, v := range override.Symbols {
		merged.Symbols[k] = v
	}
	return merged
}

// Marshal serializes a table to YAML.
func Marshal(t *Table) ([]byte, error) {
	return yaml.Marshal(t)
}
