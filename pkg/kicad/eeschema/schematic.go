// Package eeschema models a KiCad legacy schematic
// ("EESchema Schematic File Version 4") and writes it out.
package eeschema

import "github.com/OpenTraceLab/kiconv/pkg/kicad/orient"

// Format version written in the file header
const Version = 4

// Page describes the drawing sheet. Dimensions are in mils.
type Page struct {
	Format string
	Width  int
	Height int
}

// A4 is the default sheet.
var A4 = Page{Format: "A4", Width: 11693, Height: 8268}

// TitleBlock holds the sheet title block texts.
type TitleBlock struct {
	Title    string
	Date     string
	Rev      string
	Company  string
	Comments [4]string
}

// Schematic is a single-sheet legacy schematic.
type Schematic struct {
	Page       Page
	TitleBlock TitleBlock
	Items      []Item
}

// New returns an empty A4 schematic.
func New() *Schematic {
	return &Schematic{Page: A4}
}

// Add appends items in drawing order.
func (s *Schematic) Add(items ...Item) {
	s.Items = append(s.Items, items...)
}

// Components returns the placed components in drawing order.
func (s *Schematic) Components() []*Component {
	var comps []*Component
	for _, it := range s.Items {
		if c, ok := it.(*Component); ok {
			comps = append(comps, c)
		}
	}
	return comps
}

// Item is one drawing item. Implementations: *Wire, *Connection, *Label,
// *Note, *Component.
type Item interface {
	item()
}

// Wire is a wire segment.
type Wire struct {
	X1, Y1 int
	X2, Y2 int
}

// Connection is a junction dot.
type Connection struct {
	X, Y int
}

// Label is a local net label.
type Label struct {
	X, Y        int
	Orientation int // 0 to 3, counter-clockwise quarter turns
	Size        int
	Text        string
}

// Note is a free graphic text. Line breaks are kept in Text.
type Note struct {
	X, Y        int
	Orientation int
	Size        int
	Text        string
}

// Field orientations
const (
	Horizontal = "H"
	Vertical   = "V"
)

// Field flags
const (
	Visible = "0000"
	Hidden  = "0001"
)

// Field is one text field of a component. Fields 0 to 3 are the reference,
// value, footprint and datasheet; later fields carry a Name.
type Field struct {
	Text        string
	Orientation string
	X, Y        int
	Size        int
	Flags       string
	Just        string
	Style       string
	Name        string
}

// HiddenField returns the default empty field anchored at (x, y).
func HiddenField(x, y int) Field {
	return Field{
		Orientation: Horizontal,
		X:           x,
		Y:           y,
		Size:        50,
		Flags:       Hidden,
		Just:        "C",
		Style:       "CNN",
	}
}

// Component is a placed library symbol.
type Component struct {
	Lib       string // library:symbol
	Ref       string
	Unit      int
	Convert   int
	Timestamp uint32
	X, Y      int
	Fields    []Field
	Matrix    orient.Matrix
}

func (*Wire) item()       {}
func (*Connection) item() {}
func (*Label) item()      {}
func (*Note) item()       {}
func (*Component) item()  {}
