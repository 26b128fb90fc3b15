package pcb

import (
	"github.com/OpenTraceLab/kiconv/pkg/kicad/bind"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp"
)

// Line is a straight graphic segment (gr_line, fp_line)
type Line struct {
	Start  bind.Optional[sexp.Pos]
	End    bind.Optional[sexp.Pos]
	Angle  bind.Optional[float64]
	Layer  bind.Optional[string]
	Width  bind.Optional[int64]
	Tstamp bind.Optional[uint64]
}

func (l *Line) Fields() []bind.Field {
	return []bind.Field{
		bind.F("start", bind.Pos(&l.Start)),
		bind.F("end", bind.Pos(&l.End)),
		bind.F("angle", bind.Float(&l.Angle)),
		bind.F("layer", bind.String(&l.Layer)),
		bind.F("width", bind.Distance(&l.Width)),
		bind.F("tstamp", bind.Hex(&l.Tstamp)),
	}
}

// Arc is a circular arc given by its center (start), arc start (end) and
// sweep angle in degrees
type Arc struct {
	Start  bind.Optional[sexp.Pos]
	End    bind.Optional[sexp.Pos]
	Angle  bind.Optional[float64]
	Layer  bind.Optional[string]
	Width  bind.Optional[int64]
	Tstamp bind.Optional[uint64]
}

func (a *Arc) Fields() []bind.Field {
	return []bind.Field{
		bind.F("start", bind.Pos(&a.Start)),
		bind.F("end", bind.Pos(&a.End)),
		bind.F("angle", bind.Float(&a.Angle)),
		bind.F("layer", bind.String(&a.Layer)),
		bind.F("width", bind.Distance(&a.Width)),
		bind.F("tstamp", bind.Hex(&a.Tstamp)),
	}
}

// Circle is given by its center and a point on the circumference
type Circle struct {
	Center bind.Optional[sexp.Pos]
	End    bind.Optional[sexp.Pos]
	Layer  bind.Optional[string]
	Width  bind.Optional[int64]
	Tstamp bind.Optional[uint64]
}

func (c *Circle) Fields() []bind.Field {
	return []bind.Field{
		bind.F("center", bind.Pos(&c.Center)),
		bind.F("end", bind.Pos(&c.End)),
		bind.F("layer", bind.String(&c.Layer)),
		bind.F("width", bind.Distance(&c.Width)),
		bind.F("tstamp", bind.Hex(&c.Tstamp)),
	}
}

// Poly is a graphic polygon (gr_poly, fp_poly)
type Poly struct {
	Points bind.Optional[[]sexp.XY]
	Layer  bind.Optional[string]
	Width  bind.Optional[int64]
	Tstamp bind.Optional[uint64]
}

func (p *Poly) Fields() []bind.Field {
	return []bind.Field{
		bind.F("pts", bind.XYList(&p.Points)),
		bind.F("layer", bind.String(&p.Layer)),
		bind.F("width", bind.Distance(&p.Width)),
		bind.F("tstamp", bind.Hex(&p.Tstamp)),
	}
}
