package sexp

import (
	"fmt"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp/kicadsexp"
)

// Typed value extraction helpers. Index 0 is the first item after the name.

// CheckArity fails unless n has exactly want items.
func CheckArity(n *kicadsexp.Node, want int) error {
	if n.Len() != want {
		return fmt.Errorf("expected %d items, got %d", want, n.Len())
	}
	return nil
}

// GetString extracts the atom at the given index.
func GetString(n *kicadsexp.Node, index int) (string, error) {
	if index < 0 || index >= n.Len() {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, n.Len())
	}
	s, ok := n.Atom(index)
	if !ok {
		return "", fmt.Errorf("expected atom at index %d, got list %q", index, n.Items[index].String())
	}
	return s, nil
}

// GetInt extracts an int value at the given index
func GetInt(n *kicadsexp.Node, index int) (int, error) {
	str, err := GetString(n, index)
	if err != nil {
		return 0, err
	}
	return ParseInt(str)
}

// GetFloat extracts a float64 value at the given index
func GetFloat(n *kicadsexp.Node, index int) (float64, error) {
	str, err := GetString(n, index)
	if err != nil {
		return 0, err
	}
	return ParseFloat(str)
}

// GetDistance extracts a length in nanometres at the given index.
func GetDistance(n *kicadsexp.Node, index int) (int64, error) {
	str, err := GetString(n, index)
	if err != nil {
		return 0, err
	}
	return ParseDistance(str)
}

// GetHex extracts a hexadecimal value at the given index.
func GetHex(n *kicadsexp.Node, index int) (uint64, error) {
	str, err := GetString(n, index)
	if err != nil {
		return 0, err
	}
	return ParseHex(str)
}

// GetXY extracts (keyword X Y).
func GetXY(n *kicadsexp.Node) (XY, error) {
	if err := CheckArity(n, 2); err != nil {
		return XY{}, err
	}
	x, err := GetDistance(n, 0)
	if err != nil {
		return XY{}, fmt.Errorf("failed to parse X: %w", err)
	}
	y, err := GetDistance(n, 1)
	if err != nil {
		return XY{}, fmt.Errorf("failed to parse Y: %w", err)
	}
	return XY{X: x, Y: y}, nil
}

// GetPos extracts (keyword X Y [angle]).
func GetPos(n *kicadsexp.Node) (Pos, error) {
	if n.Len() != 2 && n.Len() != 3 {
		return Pos{}, fmt.Errorf("expected 2 or 3 items, got %d", n.Len())
	}
	x, err := GetDistance(n, 0)
	if err != nil {
		return Pos{}, fmt.Errorf("failed to parse X coordinate: %w", err)
	}
	y, err := GetDistance(n, 1)
	if err != nil {
		return Pos{}, fmt.Errorf("failed to parse Y coordinate: %w", err)
	}
	pos := Pos{X: x, Y: y}
	if n.Len() == 3 {
		angle, err := GetFloat(n, 2)
		if err != nil {
			return Pos{}, fmt.Errorf("failed to parse angle: %w", err)
		}
		pos.Angle = angle
		pos.HasAngle = true
	}
	return pos, nil
}

// GetStrings returns all items as atoms.
func GetStrings(n *kicadsexp.Node) ([]string, error) {
	out := make([]string, 0, n.Len())
	for i := range n.Items {
		s, err := GetString(n, i)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Node builders used when writing.

// XYNode builds (name X Y).
func XYNode(name string, p XY) *kicadsexp.Node {
	return kicadsexp.Atoms(name, FormatDistance(p.X), FormatDistance(p.Y))
}

// PosNode builds (name X Y [angle]).
func PosNode(name string, p Pos) *kicadsexp.Node {
	if p.HasAngle {
		return kicadsexp.Atoms(name, FormatDistance(p.X), FormatDistance(p.Y), FormatFloat(p.Angle))
	}
	return kicadsexp.Atoms(name, FormatDistance(p.X), FormatDistance(p.Y))
}
