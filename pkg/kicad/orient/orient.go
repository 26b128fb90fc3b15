// Package orient maps a symbol's rotation and mirror state onto the
// placement matrix of a KiCad legacy schematic component, and rotates
// symbol-local anchor offsets into the placed frame.
//
// Source schematics use a Y-down frame; the placement matrix is expressed in
// the symbol library's Y-up frame. For every orientation
//
//	Placement(r, m).Apply(x, y) == FlipY(Offset(x, y, r, m))
package orient

import (
	"errors"
	"fmt"
)

// ErrRotation reports a rotation that is not a multiple of 90 degrees.
var ErrRotation = errors.New("rotation is not a multiple of 90 degrees")

// Matrix is a 2x2 integer transform in row-major order:
// x' = m[0]*x + m[1]*y, y' = m[2]*x + m[3]*y.
type Matrix [4]int

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y int) (int, int) {
	return m[0]*x + m[1]*y, m[2]*x + m[3]*y
}

type orientation struct {
	rotation int
	mirror   bool
}

var placements = map[orientation]Matrix{
	{0, false}:   {1, 0, 0, -1},
	{90, false}:  {0, -1, -1, 0},
	{180, false}: {-1, 0, 0, 1},
	{270, false}: {0, 1, 1, 0},
	{0, true}:    {-1, 0, 0, -1},
	{90, true}:   {0, -1, 1, 0},
	{180, true}:  {1, 0, 0, 1},
	{270, true}:  {0, 1, -1, 0},
}

// Normalize folds a rotation in degrees into [0, 360).
func Normalize(deg int) (int, error) {
	if deg%90 != 0 {
		return 0, fmt.Errorf("%w: %d", ErrRotation, deg)
	}
	return ((deg % 360) + 360) % 360, nil
}

// Placement returns the component matrix for rotation rot and mirror state.
func Placement(rot int, mirror bool) (Matrix, error) {
	r, err := Normalize(rot)
	if err != nil {
		return Matrix{}, err
	}
	return placements[orientation{r, mirror}], nil
}

// Offset rotates a symbol-local offset into the placed frame: x is negated
// when mirrored, then the offset is turned by rot.
func Offset(x, y, rot int, mirror bool) (int, int, error) {
	r, err := Normalize(rot)
	if err != nil {
		return 0, 0, err
	}
	if mirror {
		x = -x
	}
	switch r {
	case 90:
		return -y, x, nil
	case 180:
		return -x, -y, nil
	case 270:
		return y, -x, nil
	}
	return x, y, nil
}

// FlipY converts between the Y-down and Y-up frames.
func FlipY(x, y int) (int, int) {
	return x, -y
}
