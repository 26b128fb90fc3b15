// Package sexp provides shared value types and primitive codecs for KiCad
// S-expression files. Lengths are integer nanometres throughout; conversion to
// the decimal millimetre text happens only at the file boundary.
package sexp

// XY is a 2D point in nanometres.
type XY struct {
	X int64
	Y int64
}

// Pos is an (at X Y [angle]) placement. HasAngle preserves the arity of the
// source node so that a zero angle written in a file is written back.
type Pos struct {
	X        int64
	Y        int64
	Angle    float64 // degrees
	HasAngle bool
}

// XY returns the point part of the placement.
func (p Pos) XY() XY {
	return XY{X: p.X, Y: p.Y}
}

// XYZ is a 3D triple, used by 3D model placement.
type XYZ struct {
	X int64
	Y int64
	Z int64
}

// Size represents dimensions in nanometres.
type Size struct {
	Width  int64
	Height int64
}

// BoundingBox represents a rectangular boundary
type BoundingBox struct {
	Min   XY
	Max   XY
	valid bool
}

// IsEmpty checks if the bounding box has not been expanded yet
func (bb BoundingBox) IsEmpty() bool {
	return !bb.valid
}

// Expand expands the bounding box to include a point
func (bb *BoundingBox) Expand(p XY) {
	if !bb.valid {
		bb.Min, bb.Max, bb.valid = p, p, true
		return
	}
	if p.X < bb.Min.X {
		bb.Min.X = p.X
	}
	if p.Y < bb.Min.Y {
		bb.Min.Y = p.Y
	}
	if p.X > bb.Max.X {
		bb.Max.X = p.X
	}
	if p.Y > bb.Max.Y {
		bb.Max.Y = p.Y
	}
}

// ExpandBox expands to include another bounding box
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Width returns the width of the bounding box
func (bb BoundingBox) Width() int64 {
	return bb.Max.X - bb.Min.X
}

// Height returns the height of the bounding box
func (bb BoundingBox) Height() int64 {
	return bb.Max.Y - bb.Min.Y
}

// Center returns the center point of the bounding box
func (bb BoundingBox) Center() XY {
	return XY{
		X: (bb.Min.X + bb.Max.X) / 2,
		Y: (bb.Min.Y + bb.Max.Y) / 2,
	}
}
