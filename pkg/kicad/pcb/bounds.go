package pcb

import (
	"math"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/bind"
)

// GetBoundingBox calculates the bounding box of the entire board
// Includes tracks, pads, graphics, and vias
func (b *Board) GetBoundingBox() BoundingBox {
	var bbox BoundingBox

	// Include all tracks
	for _, s := range b.Segments {
		expandPos(&bbox, s.Start)
		expandPos(&bbox, s.End)
	}

	// Include all vias
	for _, via := range b.Vias {
		at, ok := via.At.Get()
		if !ok {
			continue
		}
		// Vias have a size, so expand by radius
		radius := via.Size.Or(0) / 2
		bbox.Expand(XY{X: at.X - radius, Y: at.Y - radius})
		bbox.Expand(XY{X: at.X + radius, Y: at.Y + radius})
	}

	// Include all module pads (with position transformation)
	for _, m := range b.Modules {
		bbox.ExpandBox(m.GetBoundingBox())
	}

	// Include all graphics
	for _, line := range b.Lines {
		expandPos(&bbox, line.Start)
		expandPos(&bbox, line.End)
	}

	for _, circle := range b.Circles {
		center, ok1 := circle.Center.Get()
		end, ok2 := circle.End.Get()
		if !ok1 || !ok2 {
			continue
		}
		// Calculate radius from center to end point
		radius := int64(math.Round(math.Hypot(float64(end.X-center.X), float64(end.Y-center.Y))))
		bbox.Expand(XY{X: center.X - radius, Y: center.Y - radius})
		bbox.Expand(XY{X: center.X + radius, Y: center.Y + radius})
	}

	for _, arc := range b.Arcs {
		// For arcs, include center and start points
		// This is approximate but good enough for bounding box
		expandPos(&bbox, arc.Start)
		expandPos(&bbox, arc.End)
	}

	for _, poly := range b.Polys {
		for _, point := range poly.Points.Or(nil) {
			bbox.Expand(point)
		}
	}

	for _, z := range b.Zones {
		for _, point := range z.Polygon.Or(nil) {
			bbox.Expand(point)
		}
	}

	for _, text := range b.Texts {
		// For text, just include the position
		// A more accurate implementation would calculate text bounds
		expandPos(&bbox, text.At)
	}

	return bbox
}

// GetBoundingBox calculates the bounding box of a module
// Includes all pads with their positions relative to module position
func (m *Module) GetBoundingBox() BoundingBox {
	var bbox BoundingBox

	// Transform pad positions by module position and rotation
	for _, pad := range m.Pads {
		// Get absolute pad position
		absPos := m.TransformPosition(pad.At.Or(Pos{}).XY())

		// Expand by pad size (approximate as rectangle)
		size := pad.Size.Or(Size{})
		halfWidth := size.Width / 2
		halfHeight := size.Height / 2

		bbox.Expand(XY{X: absPos.X - halfWidth, Y: absPos.Y - halfHeight})
		bbox.Expand(XY{X: absPos.X + halfWidth, Y: absPos.Y + halfHeight})
	}

	// If no pads, at least include module position
	if len(m.Pads) == 0 {
		bbox.Expand(m.At.Or(Pos{}).XY())
	}

	return bbox
}

// TransformPosition transforms a relative position by module position and rotation
func (m *Module) TransformPosition(rel XY) XY {
	at := m.At.Or(Pos{})
	x, y := float64(rel.X), float64(rel.Y)

	// Apply module rotation (negate to match silkscreen coordinate system)
	if at.Angle != 0 {
		angleRad := -at.Angle * math.Pi / 180.0
		cos := math.Cos(angleRad)
		sin := math.Sin(angleRad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	// Apply translation
	return XY{
		X: at.X + int64(math.Round(x)),
		Y: at.Y + int64(math.Round(y)),
	}
}

func expandPos(bbox *BoundingBox, p bind.Optional[Pos]) {
	if pos, ok := p.Get(); ok {
		bbox.Expand(pos.XY())
	}
}
