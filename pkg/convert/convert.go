// Package convert turns LTspice and gschem source elements into a KiCad
// legacy schematic.
//
// Every wire becomes a wire with a junction at each end. Symbols are looked
// up in a symbol table; symbols without an entry are skipped with a warning
// and the rest of the file still converts.
package convert

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/OpenTraceLab/kiconv/pkg/element"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/eeschema"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/orient"
	"github.com/OpenTraceLab/kiconv/pkg/symbols"
)

// Config holds converter settings
type Config struct {
	// Table maps source symbols; nil selects the dialect's built-in table.
	Table *symbols.Table
	// Stamp is the timestamp of the first component. Later components count
	// up from it.
	Stamp uint32
	// Logger receives per-element debug output.
	Logger *slog.Logger
}

// DefaultConfig returns a configuration stamped with the current time.
func DefaultConfig() Config {
	return Config{
		Stamp:  uint32(time.Now().Unix()),
		Logger: slog.Default(),
	}
}

// Converter converts the elements of one source dialect.
type Converter struct {
	dialect *dialect
	table   *symbols.Table
	stamp   uint32
	log     *slog.Logger
}

// New creates a converter for a source dialect.
func New(d Dialect, cfg Config) (*Converter, error) {
	dl, ok := dialects[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, d)
	}
	table := cfg.Table
	if table == nil {
		var err error
		if table, err = symbols.Default(string(d)); err != nil {
			return nil, err
		}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Converter{dialect: dl, table: table, stamp: cfg.Stamp, log: log}, nil
}

// Convert builds a schematic from source elements.
func (c *Converter) Convert(elems []element.Element) (*eeschema.Schematic, Diagnostics) {
	var diags Diagnostics
	sch := eeschema.New()

	for _, e := range elems {
		switch e := e.(type) {
		case *element.Wire:
			c.wire(sch, e)
		case *element.Symbol:
			c.symbol(sch, e, &diags)
		case *element.Flag:
			c.flag(sch, e, &diags)
		case *element.Text:
			c.text(sch, e)
		}
	}
	return sch, diags
}

func (c *Converter) wire(sch *eeschema.Schematic, w *element.Wire) {
	coord := c.dialect.coord
	x1, y1 := coord(w.X1, w.Y1)
	x2, y2 := coord(w.X2, w.Y2)
	sch.Add(
		&eeschema.Wire{X1: x1, Y1: y1, X2: x2, Y2: y2},
		&eeschema.Connection{X: x1, Y: y1},
		&eeschema.Connection{X: x2, Y: y2},
	)
	for _, a := range w.Attributes {
		if a.Key != "netname" {
			continue
		}
		x, y := coord(a.X, a.Y)
		sch.Add(&eeschema.Label{X: x, Y: y, Size: 50, Text: LabelText(a.Value)})
	}
}

// LabelText rewrites a gschem overbar name \_X\_ into KiCad's ~X.
func LabelText(v string) string {
	if len(v) > 3 && strings.HasPrefix(v, `\_`) && strings.HasSuffix(v, `\_`) {
		return "~" + v[2:len(v)-2]
	}
	return v
}

func (c *Converter) symbol(sch *eeschema.Schematic, s *element.Symbol, diags *Diagnostics) {
	entry, ok := c.table.Lookup(s.Basename)
	if !ok {
		diags.AddWarning(CodeUnsupportedSymbol, s.Basename, "Skipping component - %s", s.Basename)
		return
	}
	xoff, yoff, err := orient.Offset(entry.XOff, entry.YOff, s.Angle, s.Mirror)
	if err != nil {
		diags.AddWarning(CodeInvalidRotation, s.Basename, "Skipping component - %s: %v", s.Basename, err)
		return
	}
	matrix, err := orient.Placement(s.Angle+entry.Rotate, s.Mirror)
	if err != nil {
		diags.AddWarning(CodeInvalidRotation, s.Basename, "Skipping component - %s: %v", s.Basename, err)
		return
	}

	comp := c.component(entry.Lib, "X", s.X, s.Y)
	comp.X, comp.Y = c.dialect.coord(s.X+xoff, s.Y+yoff)
	comp.Matrix = matrix
	for _, a := range s.Attributes {
		rule, ok := c.dialect.fields[a.Key]
		if !ok {
			diags.AddInfo(CodeIgnoredAttribute, s.Basename, "Ignoring attribute %s of %s", a.Key, s.Basename)
			continue
		}
		c.applyField(comp, s, a, rule)
	}

	c.log.Debug("converted component", "symbol", s.Basename, "lib", comp.Lib, "ref", comp.Ref)
	sch.Add(comp)
}

func (c *Converter) flag(sch *eeschema.Schematic, f *element.Flag, diags *Diagnostics) {
	entry, ok := c.table.Lookup(f.Name)
	if !ok {
		diags.AddWarning(CodeFlagFallback, f.Name, "Changing Flag %s to %s, as no mapping was found.", f.Name, symbols.Fallback)
		if entry, ok = c.table.Lookup(symbols.Fallback); !ok {
			diags.AddWarning(CodeUnsupportedSymbol, f.Name, "Skipping Flag - %s", f.Name)
			return
		}
	}
	// Flags carry no orientation; the entry's offset is used as is.
	matrix, err := orient.Placement(entry.Rotate, false)
	if err != nil {
		diags.AddWarning(CodeInvalidRotation, f.Name, "Skipping Flag - %s: %v", f.Name, err)
		return
	}

	comp := c.component(entry.Lib, "#PWR", f.X, f.Y)
	comp.X, comp.Y = c.dialect.coord(f.X+entry.XOff, f.Y+entry.YOff)
	comp.Matrix = matrix

	c.log.Debug("converted flag", "name", f.Name, "lib", comp.Lib)
	sch.Add(comp)
}

func (c *Converter) text(sch *eeschema.Schematic, t *element.Text) {
	x, y := c.dialect.coord(t.X, t.Y)
	sch.Add(&eeschema.Note{X: x, Y: y, Size: 50, Text: t.Body})
}

// component starts a component with the four default hidden fields at the
// source anchor and the next timestamp.
func (c *Converter) component(lib, ref string, x, y int) *eeschema.Component {
	fx, fy := c.dialect.coord(x, y)
	comp := &eeschema.Component{
		Lib:       lib,
		Ref:       ref,
		Unit:      1,
		Convert:   1,
		Timestamp: c.stamp,
	}
	c.stamp++
	for i := 0; i < 4; i++ {
		comp.Fields = append(comp.Fields, eeschema.HiddenField(fx, fy))
	}
	return comp
}

// applyField stores an attribute value in its field, adding a named field
// for attributes beyond the fixed ones.
func (c *Converter) applyField(comp *eeschema.Component, s *element.Symbol, a element.Attribute, rule fieldRule) {
	var f *eeschema.Field
	if rule.index >= 0 {
		f = &comp.Fields[rule.index]
	} else {
		x, y := c.dialect.coord(s.X, s.Y)
		comp.Fields = append(comp.Fields, eeschema.HiddenField(x, y))
		f = &comp.Fields[len(comp.Fields)-1]
		f.Name = rule.name
	}
	if rule.ref {
		comp.Ref = a.Value
	}

	f.Text = a.Value
	if c.dialect.anchorText {
		f.X, f.Y = c.dialect.coord(s.X, s.Y+rule.yoff)
		f.Flags = eeschema.Visible
		return
	}
	f.X, f.Y = c.dialect.coord(a.X, a.Y)
	if a.Visible {
		f.Flags = eeschema.Visible
	}
}
