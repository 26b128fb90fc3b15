// Package element holds the source side of a schematic conversion: the
// wires, symbol instances, flags and free texts read from an LTspice or gschem
// file, in source coordinates.
package element

import "strings"

// Element is one item of a source schematic. The set of implementations is
// closed: *Wire, *Symbol, *Flag and *Text.
type Element interface {
	element()
}

// Attribute is a key=value annotation attached to a wire or symbol. X and Y
// locate the attribute text; readers that have no position for it copy the
// owner's anchor.
type Attribute struct {
	Key     string
	Value   string
	X       int
	Y       int
	Visible bool
}

// ParseAttribute splits "key=value" text. Text without '=' is not an
// attribute.
func ParseAttribute(text string, x, y int, visible bool) (Attribute, bool) {
	key, value, ok := strings.Cut(text, "=")
	if !ok || key == "" {
		return Attribute{}, false
	}
	return Attribute{Key: key, Value: value, X: x, Y: y, Visible: visible}, true
}

// Attributes is an ordered attribute list.
type Attributes []Attribute

// Get returns the first attribute with the given key.
func (a Attributes) Get(key string) (Attribute, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr, true
		}
	}
	return Attribute{}, false
}

// Wire is a net segment between two points.
type Wire struct {
	X1, Y1     int
	X2, Y2     int
	Attributes Attributes
}

// Symbol is a placed symbol instance. Angle is one of 0, 90, 180, 270.
type Symbol struct {
	Basename   string
	X, Y       int
	Angle      int
	Mirror     bool
	Attributes Attributes
	Windows    []string // LTspice WINDOW lines, kept verbatim
}

// Flag is an LTspice net flag; the name selects a power symbol.
type Flag struct {
	X, Y int
	Name string
}

// Text is a free text annotation.
type Text struct {
	X, Y  int
	Align string
	Size  int
	Body  string
}

func (*Wire) element()   {}
func (*Symbol) element() {}
func (*Flag) element()   {}
func (*Text) element()   {}
